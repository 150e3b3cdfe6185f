package feed

import (
	"bytes"
	"encoding/csv"
)

// newCsvReader builds a reader tolerant of the export's quirks: stray quotes
// and rows with trailing empty columns
func newCsvReader(payload []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}
