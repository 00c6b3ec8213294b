package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses CSV data into a Table. The first record is the header.
// Ragged rows are tolerated: short rows are padded with missing cells and
// long rows are truncated to the header width, since exported dashboards
// data is not always rectangular.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		// Strip a UTF-8 BOM left behind by spreadsheet exports.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t, err := New(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make([]string, len(header))
		for i := range row {
			if i < len(record) {
				row[i] = record[i]
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}
