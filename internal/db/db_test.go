package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectAndQueries(t *testing.T) {
	conn, err := Connect(t.Context(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	q := New(conn)

	_, err = q.GetItem(t.Context(), "lightstyler_character_images")
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, q.SetItem(t.Context(), SetItemParams{
		Key:   "lightstyler_character_images",
		Value: `{"Alice":"img1.png"}`,
	}))
	require.NoError(t, q.SetItem(t.Context(), SetItemParams{
		Key:   "lightstyler_character_images",
		Value: `{"Alice":"img2.png"}`,
	}))

	item, err := q.GetItem(t.Context(), "lightstyler_character_images")
	require.NoError(t, err)
	require.Equal(t, `{"Alice":"img2.png"}`, item.Value)
	require.NotZero(t, item.UpdatedAt)

	items, err := q.ListItems(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, q.RemoveItem(t.Context(), "lightstyler_character_images"))
	items, err = q.ListItems(t.Context())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestPreparedQueries(t *testing.T) {
	conn, err := ConnectPath(t.Context(), filepath.Join(t.TempDir(), "prepared.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	q, err := Prepare(t.Context(), conn)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	require.NoError(t, q.SetItem(t.Context(), SetItemParams{Key: "k", Value: "v"}))
	item, err := q.GetItem(t.Context(), "k")
	require.NoError(t, err)
	require.Equal(t, "v", item.Value)
}

func TestConnectRequiresDataDir(t *testing.T) {
	_, err := Connect(t.Context(), "")
	require.Error(t, err)
}
