package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// widths in mm, summing to the printable width of landscape A4
var pdfColWidths = []float64{12, 26, 34, 42, 34, 42, 35, 20, 32}

// WritePDF renders the schedule as a landscape table.
func WritePDF(w io.Writer, s *CableSchedule) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Cable List: %s", s.DiagramName)))
	pdf.Ln(8)
	if s.ClientName != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("Client: %s", s.ClientName)))
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Cables: %d", len(s.Rows)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 8)
	for i, h := range Columns {
		pdf.CellFormat(pdfColWidths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range s.Rows {
		for i, cell := range row.Cells() {
			align := "L"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(pdfColWidths[i], 6, fit(pdf, tr(cell), pdfColWidths[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit truncates s with an ellipsis so it fits a cell of the given width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}
