package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vinA = "1HGCM82633A004352"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileHashMatchesForIdenticalContent(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.pdf")
	b := filepath.Join(root, "b.pdf")
	writeFile(t, a, "same bytes")
	writeFile(t, b, "same bytes")

	assert.Equal(t, FileHash(a), FileHash(b))
}

func TestFileHashDiffersForDifferentContent(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.pdf")
	b := filepath.Join(root, "b.pdf")
	writeFile(t, a, "content one")
	writeFile(t, b, "content two, different")

	assert.NotEqual(t, FileHash(a), FileHash(b))
}

func TestPlanCategoryRenamesCollapsesIdenticalCascoFiles(t *testing.T) {
	root := t.TempDir()
	srcA := filepath.Join(root, "CASCO scan.pdf")
	srcB := filepath.Join(root, "CASCO copy.pdf")
	writeFile(t, srcA, "identical casco bytes")
	writeFile(t, srcB, "identical casco bytes")

	led := ledger.New()
	led.Add(ledger.ActionCopyFile, srcA, filepath.Join(root, "out", vinA, "CASCO scan.pdf"), "r", vinA, vinA)
	led.Add(ledger.ActionCopyFile, srcB, filepath.Join(root, "out", vinA, "CASCO copy.pdf"), "r", vinA, vinA)

	stats, original := PlanCategoryRenames(led)

	require.Len(t, led.Changes, 1, "byte-identical CASCO copies must collapse to one entry")
	assert.Equal(t, 1, stats.Deduped)
	assert.Equal(t, 1, stats.Renamed)
	assert.Equal(t, "casco.pdf", filepath.Base(led.Changes[0].Destination))

	original0, ok := original[OriginalNameKey{Vin: vinA, NewFilename: "casco.pdf"}]
	assert.True(t, ok)
	assert.NotEmpty(t, original0)
}

func TestPlanCategoryRenamesNumbersDistinctFilesInSameCategory(t *testing.T) {
	root := t.TempDir()
	srcA := filepath.Join(root, "RCA one.pdf")
	srcB := filepath.Join(root, "RCA two.pdf")
	writeFile(t, srcA, "rca policy one")
	writeFile(t, srcB, "rca policy two, different content")

	led := ledger.New()
	led.Add(ledger.ActionCopyFile, srcA, filepath.Join(root, "out", vinA, "POLITA_RCA one.pdf"), "r", vinA, vinA)
	led.Add(ledger.ActionCopyFile, srcB, filepath.Join(root, "out", vinA, "POLITA_RCA two.pdf"), "r", vinA, vinA)

	stats, _ := PlanCategoryRenames(led)

	require.Len(t, led.Changes, 2)
	assert.Equal(t, 0, stats.Deduped)
	assert.Equal(t, 2, stats.Renamed)

	names := map[string]bool{}
	for _, c := range led.Changes {
		names[filepath.Base(c.Destination)] = true
	}
	assert.True(t, names["rca_1.pdf"])
	assert.True(t, names["rca_2.pdf"])
}

func TestPlanCategoryRenamesSplitsTalonFromCiv(t *testing.T) {
	root := t.TempDir()
	talonSrc := filepath.Join(root, "TALON.pdf")
	civSrc := filepath.Join(root, "CIV.pdf")
	writeFile(t, talonSrc, "talon doc")
	writeFile(t, civSrc, "civ doc")

	led := ledger.New()
	led.Add(ledger.ActionCopyFile, talonSrc, filepath.Join(root, "out", vinA, "TALON.pdf"), "r", vinA, vinA)
	led.Add(ledger.ActionCopyFile, civSrc, filepath.Join(root, "out", vinA, "CIV.pdf"), "r", vinA, vinA)

	_, _ = PlanCategoryRenames(led)

	require.Len(t, led.Changes, 2)
	names := map[string]bool{}
	for _, c := range led.Changes {
		names[filepath.Base(c.Destination)] = true
	}
	assert.True(t, names["talon.pdf"])
	assert.True(t, names["civ.pdf"])
}

func TestPlanCategoryRenamesLeavesAlteDocumenteAlone(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "random memo.pdf")
	writeFile(t, src, "memo")

	led := ledger.New()
	led.Add(ledger.ActionCopyFile, src, filepath.Join(root, "out", vinA, "random memo.pdf"), "r", vinA, vinA)

	stats, _ := PlanCategoryRenames(led)

	require.Len(t, led.Changes, 1)
	assert.Equal(t, "random memo.pdf", filepath.Base(led.Changes[0].Destination))
	assert.Equal(t, 0, stats.Renamed)
}

func TestPlanCategoryRenamesRebuildsDestinationIndex(t *testing.T) {
	root := t.TempDir()
	srcA := filepath.Join(root, "CASCO scan.pdf")
	srcB := filepath.Join(root, "CASCO copy.pdf")
	writeFile(t, srcA, "same")
	writeFile(t, srcB, "same")

	led := ledger.New()
	led.Add(ledger.ActionCopyFile, srcA, filepath.Join(root, "out", vinA, "CASCO scan.pdf"), "r", vinA, vinA)
	led.Add(ledger.ActionCopyFile, srcB, filepath.Join(root, "out", vinA, "CASCO copy.pdf"), "r", vinA, vinA)

	PlanCategoryRenames(led)

	dests := led.PlannedDestinations()
	_, stale := dests[filepath.Join(root, "out", vinA, "CASCO scan.pdf")]
	_, fresh := dests[filepath.Join(root, "out", vinA, "casco.pdf")]
	assert.False(t, stale)
	assert.True(t, fresh)
}
