package reorg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoConfigFile(t *testing.T) {
	mgr := NewManager("")
	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Greater(t, cfg.Workers, 0)
	assert.Equal(t, 120, cfg.OCR.TextTimeoutS)
	assert.Equal(t, 30, cfg.OCR.OcrTimeoutS)
}

func TestValidateRejectsMissingSourceRoot(t *testing.T) {
	cfg := &Config{OutputRoot: t.TempDir()}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsNonDirectorySourceRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := &Config{SourceRoot: file, OutputRoot: t.TempDir()}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateDefaultsExcelPathUnderOutputRoot(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	cfg := &Config{SourceRoot: src, OutputRoot: out}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(out, "inventory.xlsx"), cfg.ExcelPath)
}

func TestValidateDefaultsWorkersToOne(t *testing.T) {
	cfg := &Config{SourceRoot: t.TempDir(), OutputRoot: t.TempDir(), Workers: 0}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
}

