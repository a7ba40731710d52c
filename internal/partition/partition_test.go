package partition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func TestEnumerateFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"SINDICALIZARE Beta",
		"SINDICALIZARE Alpha - Part 1",
		"SINDICALIZARE Alpha - Part 2",
		"SINICALIZARE Gamma",
		"Not A Partition",
	)
	// a stray file at the top level should never be treated as a partition
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	dirs, err := Enumerate(root, 0, 0)
	require.NoError(t, err)
	require.Len(t, dirs, 4)

	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"SINDICALIZARE Alpha - Part 1",
		"SINDICALIZARE Alpha - Part 2",
		"SINDICALIZARE Beta",
		"SINICALIZARE Gamma",
	}, names)
}

func TestEnumerateCanonicalNameMergesParts(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "SINDICALIZARE Alpha - Part 1", "SINDICALIZARE Alpha - Part 2")

	dirs, err := Enumerate(root, 0, 0)
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "SINDICALIZARE Alpha", dirs[0].CanonicalName)
	assert.Equal(t, "SINDICALIZARE Alpha", dirs[1].CanonicalName)
}

func TestEnumerateRangeSlice(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"SINDICALIZARE A",
		"SINDICALIZARE B",
		"SINDICALIZARE C",
		"SINDICALIZARE D",
	)

	dirs, err := Enumerate(root, 2, 3)
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "SINDICALIZARE B", dirs[0].Name)
	assert.Equal(t, "SINDICALIZARE C", dirs[1].Name)
}

func TestEnumerateEmptyRoot(t *testing.T) {
	root := t.TempDir()
	dirs, err := Enumerate(root, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestEnumerateMissingRoot(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "does-not-exist"), 0, 0)
	assert.Error(t, err)
}
