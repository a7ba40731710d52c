package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vinA = "1HGCM82633A004352"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildFromDiskGroupsFilesByCategory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "P1", vinA, "casco.pdf"), "x")
	writeFile(t, filepath.Join(root, "P1", vinA, "rca.pdf"), "x")

	inv, err := BuildFromDisk(root, nil)
	require.NoError(t, err)

	entry, ok := inv[vinA]
	require.True(t, ok)
	assert.Equal(t, "P1", entry.Partition)
	assert.Equal(t, []string{"casco.pdf"}, entry.Files[category.CASCO])
	assert.Equal(t, []string{"rca.pdf"}, entry.Files[category.RCA])
}

func TestBuildFromDiskSkipsUnderscoreAndDottedPartitions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_NO_VIN", "somefolder", "x.pdf"), "x")
	writeFile(t, filepath.Join(root, "manifest.json"), "{}")
	writeFile(t, filepath.Join(root, "P1", vinA, "casco.pdf"), "x")

	inv, err := BuildFromDisk(root, nil)
	require.NoError(t, err)
	assert.Len(t, inv, 1)
	_, ok := inv[vinA]
	assert.True(t, ok)
}

func TestBuildFromDiskUsesOriginalNameForDisplay(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "P1", vinA, "casco.pdf"), "x")

	original := map[rename.OriginalNameKey]string{
		{Vin: vinA, NewFilename: "casco.pdf"}: "CASCO scan original.pdf",
	}

	inv, err := BuildFromDisk(root, original)
	require.NoError(t, err)
	assert.Equal(t, []string{"CASCO scan original.pdf"}, inv[vinA].Files[category.CASCO])
}

func TestBuildFromLedgerExtractsPartitionFromDestination(t *testing.T) {
	root := t.TempDir()
	led := ledger.New()
	led.Add(ledger.ActionCopyFile, "/src/casco.pdf", filepath.Join(root, "P1", vinA, "casco.pdf"), "r", vinA, vinA)

	inv := BuildFromLedger(led, root, nil)
	entry, ok := inv[vinA]
	require.True(t, ok)
	assert.Equal(t, "P1", entry.Partition)
	assert.Equal(t, []string{"casco.pdf"}, entry.Files[category.CASCO])
}

func TestBuildFromLedgerSkipsEntriesWithoutValidVin(t *testing.T) {
	root := t.TempDir()
	led := ledger.New()
	led.Add(ledger.ActionCopyFile, "/src/casco.pdf", filepath.Join(root, "_NO_VIN", "staged", "casco.pdf"), "r", "", "_NO_VIN")

	inv := BuildFromLedger(led, root, nil)
	assert.Len(t, inv, 0)
}

func TestBuildFromLedgerDedupesRepeatedDisplayEntries(t *testing.T) {
	root := t.TempDir()
	led := ledger.New()
	dest := filepath.Join(root, "P1", vinA, "casco.pdf")
	led.Changes = append(led.Changes,
		&ledger.Change{Action: ledger.ActionCopyFile, Source: "/a.pdf", Destination: dest, Vin: vinA},
		&ledger.Change{Action: ledger.ActionCopyFile, Source: "/b.pdf", Destination: dest, Vin: vinA},
	)

	inv := BuildFromLedger(led, root, nil)
	assert.Equal(t, []string{"casco.pdf"}, inv[vinA].Files[category.CASCO])
}
