package reorg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunPlansAndExecutesAVinFolder(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	vinDir := filepath.Join(src, "SINDICALIZARE A", "1HGCM82633A004352")
	writeFile(t, filepath.Join(vinDir, "casco.pdf"), "casco-bytes")

	cfg := &Config{SourceRoot: src, OutputRoot: out, Execute: true, Workers: 2, NoPDF: true}
	led := ledger.New()

	result, err := Run(cfg, led)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scan.VinNamed)
	assert.Equal(t, 1, result.Exec.Done)

	_, statErr := os.Stat(filepath.Join(out, "SINDICALIZARE A", "1HGCM82633A004352", "casco.pdf"))
	assert.NoError(t, statErr)
}

func TestRunDryRunLeavesOutputTreeEmpty(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	vinDir := filepath.Join(src, "SINDICALIZARE A", "1HGCM82633A004352")
	writeFile(t, filepath.Join(vinDir, "casco.pdf"), "casco-bytes")

	cfg := &Config{SourceRoot: src, OutputRoot: out, Execute: false, NoPDF: true}
	led := ledger.New()

	result, err := Run(cfg, led)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Exec.Done)
	assert.NotEmpty(t, led.Changes)

	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}

func TestBuildInventoryUsesLedgerWhenNotExecuted(t *testing.T) {
	out := t.TempDir()
	cfg := &Config{SourceRoot: t.TempDir(), OutputRoot: out, Execute: false}
	led := ledger.New()
	led.Add(ledger.ActionCopyFile, "/src/casco.pdf", filepath.Join(out, "A", "1HGCM82633A004352", "casco.pdf"), "r", "1HGCM82633A004352", "1HGCM82633A004352")

	inv, err := BuildInventory(cfg, led, nil)
	require.NoError(t, err)
	assert.Contains(t, inv, "1HGCM82633A004352")
}

func TestAuditLogPathMatchesSpecFilenameAndPlacement(t *testing.T) {
	at := time.Date(2026, time.March, 5, 14, 7, 9, 0, time.UTC)
	got := auditLogPath("/out", at)
	assert.Equal(t, filepath.Join("/out", "log_20260305_140709.jsonl"), got)
}

func TestBuildInventoryWalksDiskWhenExecuted(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "A", "1HGCM82633A004352", "casco.pdf"), "x")
	cfg := &Config{SourceRoot: t.TempDir(), OutputRoot: out, Execute: true}

	inv, err := BuildInventory(cfg, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, inv, "1HGCM82633A004352")
}
