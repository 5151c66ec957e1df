// Package export renders a diagram's cable schedule as a downloadable document.
package export

import (
	"fmt"
	"io"
	"strconv"
)

// Columns is the header row shared by every format.
var Columns = []string{
	"Cable #",
	"Cable Label",
	"From Device",
	"From Port",
	"To Device",
	"To Port",
	"Cable Type Needed",
	"Cable Length",
	"Notes",
}

// CableRow is one cable of the schedule with every reference already resolved to display text.
type CableRow struct {
	Number      int    `json:"number"`
	CableLabel  string `json:"cable_label"`
	FromDevice  string `json:"from_device"`
	FromPort    string `json:"from_port"`
	ToDevice    string `json:"to_device"`
	ToPort      string `json:"to_port"`
	CableType   string `json:"cable_type"`
	CableLength string `json:"cable_length"`
	Notes       string `json:"notes"`
}

// Cells returns the row in Columns order.
func (r CableRow) Cells() []string {
	return []string{
		strconv.Itoa(r.Number),
		r.CableLabel,
		r.FromDevice,
		r.FromPort,
		r.ToDevice,
		r.ToPort,
		r.CableType,
		r.CableLength,
		r.Notes,
	}
}

type CableSchedule struct {
	DiagramID   string     `json:"diagram_id"`
	DiagramName string     `json:"diagram_name"`
	ClientName  string     `json:"client_name,omitempty"`
	Rows        []CableRow `json:"rows"`
}

// Format is one of the downloadable encodings.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a query value to a Format; the empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json; charset=utf-8"
}

// Filename is the attachment name for a schedule of the named diagram.
func (f Format) Filename(diagramName string) string {
	if diagramName == "" {
		diagramName = "diagram"
	}
	return diagramName + "_cable_list." + string(f)
}

// Write encodes s to w. FormatJSON is not handled here.
func Write(w io.Writer, f Format, s *CableSchedule) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatPDF:
		return WritePDF(w, s)
	}
	return fmt.Errorf("format %q is not a file format", f)
}
