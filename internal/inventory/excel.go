package inventory

import (
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AlexandruDodita/vinorg/internal/category"
)

// WriteExcel writes inv to an .xlsx workbook at path, one row per VIN, one
// column per document category (plus Alte Documente and a file-count total),
// sorted alphabetically by VIN. Grounded on the original's
// write_inventory_excel (openpyxl); this port uses excelize, an ecosystem
// pick, since no example repo imports a spreadsheet library.
func WriteExcel(path string, inv Inventory) error {
	catNames := category.AllDisplayCategories()

	f := excelize.NewFile()
	const sheet = "Inventory"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(idx)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Arial", Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2F5496"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	plainBorderStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return err
	}

	headers := append([]string{"VIN", "Partition"}, stringsOf(catNames)...)
	headers = append(headers, "Total Files")

	widths := append([]float64{20, 38}, repeat(35, len(catNames))...)
	widths = append(widths, 12)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: false, XSplit: 0, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	vins := make([]string, 0, len(inv))
	for v := range inv {
		vins = append(vins, v)
	}
	sort.Strings(vins)

	row := 2
	for _, vinName := range vins {
		entry := inv[vinName]
		total := 0
		for _, files := range entry.Files {
			total += len(files)
		}

		vinCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, vinCell, vinName)
		f.SetCellStyle(sheet, vinCell, vinCell, plainBorderStyle)

		partCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, partCell, entry.Partition)
		f.SetCellStyle(sheet, partCell, partCell, plainBorderStyle)

		for ci, cat := range catNames {
			files := append([]string(nil), entry.Files[cat]...)
			sort.Strings(files)
			cell, _ := excelize.CoordinatesToCellName(ci+3, row)
			f.SetCellValue(sheet, cell, strings.Join(files, "\n"))
			f.SetCellStyle(sheet, cell, cell, cellStyle)
		}

		totalCell, _ := excelize.CoordinatesToCellName(len(headers), row)
		f.SetCellValue(sheet, totalCell, total)
		f.SetCellStyle(sheet, totalCell, totalCell, plainBorderStyle)

		row++
	}

	return f.SaveAs(path)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "top", Color: "CCCCCC", Style: 1},
		{Type: "bottom", Color: "CCCCCC", Style: 1},
		{Type: "left", Color: "CCCCCC", Style: 1},
		{Type: "right", Color: "CCCCCC", Style: 1},
	}
}

func stringsOf(cats []category.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
