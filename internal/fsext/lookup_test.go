package fsext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Run("按由近到远返回匹配项", func(t *testing.T) {
		root := t.TempDir()
		child := filepath.Join(root, "chats", "alice")
		require.NoError(t, os.MkdirAll(child, 0o755))

		rootCfg := filepath.Join(root, "lightstyler.json")
		childCfg := filepath.Join(child, ".lightstyler.json")
		require.NoError(t, os.WriteFile(rootCfg, []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(childCfg, []byte("{}"), 0o644))

		found, err := Lookup(child, "lightstyler.json", ".lightstyler.json")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(found), 2)
		require.Equal(t, childCfg, found[0])
		require.Contains(t, found, rootCfg)
	})

	t.Run("没有目标时返回空", func(t *testing.T) {
		found, err := Lookup(t.TempDir())
		require.NoError(t, err)
		require.Empty(t, found)
	})

	t.Run("起始目录不存在时报错", func(t *testing.T) {
		_, err := Lookup(filepath.Join(t.TempDir(), "missing"), "x.json")
		require.Error(t, err)
	})
}

func TestProbeEnt(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	require.NoError(t, probeEnt(file, -1))

	owner, err := Owner(dir)
	require.NoError(t, err)
	require.NoError(t, probeEnt(file, owner))

	err = probeEnt(filepath.Join(dir, "missing.json"), owner)
	require.ErrorIs(t, err, os.ErrNotExist)
}
