package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Cable List"

var xlsxColWidths = []float64{8, 16, 24, 28, 24, 28, 24, 12, 32}

// WriteXLSX writes a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, s *CableSchedule) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, h := range Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range s.Rows {
		r := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.Number)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.CableLabel)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.FromDevice)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.FromPort)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.ToDevice)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), row.ToPort)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), row.CableType)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", r), row.CableLength)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", r), row.Notes)
	}

	for i, width := range xlsxColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, width)
	}

	return f.Write(w)
}
