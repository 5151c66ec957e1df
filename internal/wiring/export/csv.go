package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the header row followed by one record per cable.
func WriteCSV(w io.Writer, s *CableSchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, row := range s.Rows {
		if err := cw.Write(row.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
