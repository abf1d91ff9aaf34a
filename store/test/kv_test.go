package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"
)

func TestOwnerKeyValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	kv := ts.KeyValueFor("owner-" + shortuuid.New())

	_, ok, err := kv.GetItem(ctx, "history")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.SetItem(ctx, "history", `["a"]`))
	require.NoError(t, kv.SetItem(ctx, "history", `["b","a"]`))

	value, ok, err := kv.GetItem(ctx, "history")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["b","a"]`, value)

	require.NoError(t, kv.RemoveItem(ctx, "history"))
	require.NoError(t, kv.RemoveItem(ctx, "history"))

	_, ok, err = kv.GetItem(ctx, "history")
	require.NoError(t, err)
	require.False(t, ok)
}
