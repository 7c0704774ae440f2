package bitbaby

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFilename is the name of the exported CSV file.
const CSVFilename = "data.csv"

// CSVHeader is the header line of the CSV export, in column order.
var CSVHeader = []string{"Pair", "Amount", "L1", "L2", "L3", "Profit", "Status"}

// EncodeCSV writes the ledger rows to w as CSV.
//
// Values are the displayed text of each cell, not re-derived. Fields holding a
// comma, a quote or a line break are quoted, with inner quotes doubled.
func EncodeCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	record := make([]string, len(Fields))
	for i, r := range l.rows {
		for j, f := range Fields {
			record[j] = r.Cell(f)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
