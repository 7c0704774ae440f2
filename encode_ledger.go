package bitbaby

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// ErrInvalidPayload is returned when persisted data cannot be read as a ledger.
var ErrInvalidPayload = errors.New("invalid ledger payload")

// jsonRow is the persisted form of a row. Fees are not persisted, they are
// derived again from the amount on load.
type jsonRow struct {
	Pair   string `json:"pair"`
	Amount string `json:"amount"`
	Profit string `json:"profit"`
	Status string `json:"status"`
}

type jsonLedger struct {
	Date string    `json:"date"`
	Rows []jsonRow `json:"rows"`
}

// EncodeLedger writes l to w as a single JSON object:
//
//	{"date":"2025-08-01","rows":[{"pair":"ETH/USDT","amount":"5000","profit":"","status":"hit"}]}
func EncodeLedger(w io.Writer, l *Ledger) error {
	jl := jsonLedger{Date: l.date, Rows: make([]jsonRow, 0, len(l.rows))}
	for _, r := range l.rows {
		jl.Rows = append(jl.Rows, jsonRow{
			Pair:   r.Pair,
			Amount: r.amount,
			Profit: r.Profit,
			Status: string(ParseStatus(string(r.Status))),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jl); err != nil {
		return fmt.Errorf("could not encode ledger: %w", err)
	}
	return nil
}

// DecodeLedger reads a ledger written by EncodeLedger, or by any older version.
//
// The payload must be a JSON object with a "rows" array, otherwise the error
// wraps ErrInvalidPayload. Rows themselves are read leniently: missing fields
// (like "profit" in data saved before it existed) are empty, scalars are read
// as text, a row that is not an object becomes an empty row and an unknown
// status becomes "hit".
func DecodeLedger(r io.Reader) (*Ledger, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the ledger object", ErrInvalidPayload)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidPayload)
	}

	v, err := jsonpath.Get("$.rows", doc)
	if err != nil {
		return nil, fmt.Errorf("%w: no rows: %v", ErrInvalidPayload, err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: rows is not an array", ErrInvalidPayload)
	}

	l := NewLedger()
	l.date = lookupText(doc, "date")
	for _, item := range items {
		l.Append(NewRow(
			lookupText(item, "pair"),
			lookupText(item, "amount"),
			lookupText(item, "profit"),
			Status(lookupText(item, "status")),
		))
	}
	return l, nil
}

// lookupText returns the property key of doc as text, or "" when it is missing
// or not a scalar.
func lookupText(doc any, key string) string {
	if _, ok := doc.(map[string]any); !ok {
		return ""
	}
	v, err := jsonpath.Get("$."+key, doc)
	if err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
