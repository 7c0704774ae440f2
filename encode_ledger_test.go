package bitbaby

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// persisted returns the fields of l that are persisted, for comparisons.
func persisted(l *Ledger) (string, [][4]string) {
	var rows [][4]string
	for r := range l.Rows() {
		rows = append(rows, [4]string{r.Pair, r.Amount(), r.Profit, string(r.Status)})
	}
	return l.Date(), rows
}

func TestEncodeLedger(t *testing.T) {
	l := NewLedger()
	l.SetDate("2025-08-01")
	l.Append(
		NewRow("ETH/USDT", "5000", "", StatusHit),
		NewRow("<b>&", "1,234.5", "-3", StatusMiss),
	)

	var buf bytes.Buffer
	require.NoError(t, EncodeLedger(&buf, l))

	want := `{"date":"2025-08-01","rows":[{"pair":"ETH/USDT","amount":"5000","profit":"","status":"hit"},{"pair":"<b>&","amount":"1,234.5","profit":"-3","status":"miss"}]}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeDecodeLedger_RoundTrip(t *testing.T) {
	l := NewLedger()
	l.SetDate("2025-08-01")
	l.Append(
		NewRow(`BTC,"X"`, "1,234.567", "12.5", StatusOver),
		NewRow("", "", "", StatusHit),
		NewRow("SOL/USDT", " 1 200 ", "-", StatusMiss),
		NewRow("中文", "-50", "line\nbreak", StatusHit),
	)

	var buf bytes.Buffer
	require.NoError(t, EncodeLedger(&buf, l))
	got, err := DecodeLedger(&buf)
	require.NoError(t, err)

	wantDate, wantRows := persisted(l)
	gotDate, gotRows := persisted(got)
	assert.Equal(t, wantDate, gotDate)
	assert.Equal(t, wantRows, gotRows)
	assert.Equal(t, Aggregate(l.Rows()), Aggregate(got.Rows()))
}

func TestDecodeLedger_BackwardCompatibility(t *testing.T) {
	// Saved before the profit column existed.
	payload := `{"date":"2024-01-02","rows":[{"pair":"BTC/USDT","amount":"100","status":"over"}]}`

	l, err := DecodeLedger(strings.NewReader(payload))
	require.NoError(t, err)

	date, rows := persisted(l)
	assert.Equal(t, "2024-01-02", date)
	assert.Equal(t, [][4]string{{"BTC/USDT", "100", "", "over"}}, rows)

	r, _ := l.RowAt(0)
	assert.Equal(t, [3]string{"2.00", "1.00", "0.50"}, r.Fees().Text())

	// and it saves with the profit column.
	var buf bytes.Buffer
	require.NoError(t, EncodeLedger(&buf, l))
	assert.Contains(t, buf.String(), `"profit":""`)
}

func TestDecodeLedger_Lenient(t *testing.T) {
	payload := `{"rows":[null, 5, "x", {"pair":"A","amount":5000,"profit":true,"status":"bogus"}, {"pair":null}]}`

	l, err := DecodeLedger(strings.NewReader(payload))
	require.NoError(t, err)

	date, rows := persisted(l)
	assert.Equal(t, "", date)
	assert.Equal(t, [][4]string{
		{"", "", "", "hit"},
		{"", "", "", "hit"},
		{"", "", "", "hit"},
		{"A", "5000", "true", "hit"},
		{"", "", "", "hit"},
	}, rows)
	assert.Equal(t, Cents(10000), Aggregate(l.Rows()).L1)
}

func TestDecodeLedger_EmptyRows(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(`{"date":"2025-01-01","rows":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, "2025-01-01", l.Date())
}

func TestDecodeLedger_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "not json", payload: "not json"},
		{name: "truncated", payload: `{"rows":[{"pair":"A"`},
		{name: "null", payload: "null"},
		{name: "array", payload: `[{"pair":"A"}]`},
		{name: "string", payload: `"ledger"`},
		{name: "no rows", payload: `{"date":"2025-01-01"}`},
		{name: "rows is an object", payload: `{"rows":{"pair":"A"}}`},
		{name: "rows is null", payload: `{"rows":null}`},
		{name: "trailing data", payload: `{"rows":[]} {"rows":[]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := DecodeLedger(strings.NewReader(tc.payload))
			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.Nil(t, l)
		})
	}
}
