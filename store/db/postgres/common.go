package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrygo/toeicplanner/store"
)

// placeholder returns a positional placeholder for PostgreSQL ($n).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns $1..$n.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// marshalCompletionData returns the JSONB parameter for data, or nil for SQL NULL.
func marshalCompletionData(data *store.CompletionData) (any, error) {
	if data == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func unmarshalCompletionData(raw []byte) (*store.CompletionData, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	data := &store.CompletionData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}
	return data, nil
}
