package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexandruDodita/vinorg/internal/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteExcelProducesOneRowPerVinSortedAlphabetically(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "inventory.xlsx")

	inv := Inventory{
		"JTEBR3FJ20K323532": {Partition: "P2", Files: map[category.Category][]string{category.RCA: {"rca.pdf"}}},
		"1HGCM82633A004352": {Partition: "P1", Files: map[category.Category][]string{category.CASCO: {"casco.pdf"}}},
	}

	require.NoError(t, WriteExcel(path, inv))
	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v1, err := f.GetCellValue("Inventory", "A2")
	require.NoError(t, err)
	v2, err := f.GetCellValue("Inventory", "A3")
	require.NoError(t, err)
	assert.Equal(t, "1HGCM82633A004352", v1, "rows must be sorted alphabetically by VIN")
	assert.Equal(t, "JTEBR3FJ20K323532", v2)

	header, err := f.GetCellValue("Inventory", "A1")
	require.NoError(t, err)
	assert.Equal(t, "VIN", header)
}
