package version

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVersionGreaterThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{"0.2.0", "0.1.9", true},
		{"0.2.0", "0.2.0", false},
		{"0.10.0", "0.9.1", true},
		{"0.1.0", "0.2.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsVersionGreaterThan(tt.version, tt.target), "%s > %s", tt.version, tt.target)
	}
}

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	assert.True(t, IsVersionGreaterOrEqualThan("0.2.0", "0.2.0"))
	assert.True(t, IsVersionGreaterOrEqualThan("0.2.1", "0.2.0"))
	assert.False(t, IsVersionGreaterOrEqualThan("0.1.9", "0.2.0"))
}

func TestGetSchemaVersion(t *testing.T) {
	assert.Equal(t, "0.2.0", GetSchemaVersion("0.2.7"))
	assert.Equal(t, "0.0.0", GetSchemaVersion("bad"))
	assert.Equal(t, "0.2", GetMinorVersion("0.2.7"))
}

func TestSortVersion(t *testing.T) {
	versions := []string{"0.10.0", "0.2.0", "0.9.3"}
	sort.Sort(SortVersion(versions))
	assert.Equal(t, []string{"0.2.0", "0.9.3", "0.10.0"}, versions)
}
