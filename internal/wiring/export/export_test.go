package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSchedule() *CableSchedule {
	return &CableSchedule{
		DiagramID:   "d1",
		DiagramName: "FOH Rack",
		ClientName:  "Test Client",
		Rows: []CableRow{
			{
				Number:      1,
				CableLabel:  "Cable 1",
				FromDevice:  "Yamaha CL5",
				FromPort:    "Omni Out 1 (XLR Male)",
				ToDevice:    "Shure ULXD4",
				ToPort:      "Mic In (XLR Female)",
				CableType:   "XLR M-F",
				CableLength: "TBD",
				Notes:       "Cable needed: XLR M-F",
			},
			{
				Number:      2,
				CableLabel:  "Snake, \"A\"",
				CableType:   "Standard Cable",
				CableLength: "10m",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "FOH Rack_cable_list.csv", FormatCSV.Filename("FOH Rack"))
	assert.Equal(t, "diagram_cable_list.pdf", FormatPDF.Filename(""))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleSchedule()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Omni Out 1 (XLR Male)", records[1][3])
	assert.Equal(t, "Snake, \"A\"", records[2][1])
	assert.Equal(t, "", records[2][2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleSchedule()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Cable #", rows[0][0])
	assert.Equal(t, "Yamaha CL5", rows[1][2])
	assert.Equal(t, "10m", rows[2][7])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPDF, sampleSchedule()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteRejectsJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, FormatJSON, sampleSchedule()))
}
