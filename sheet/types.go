/*
Package sheet provides the domain model for CSV-backed sheets.

PURPOSE:
  A sheet is a named, persisted collection of monthly rows uploaded as CSV.
  This package owns the row schema and validates it at every boundary:
  JSON decoding, CSV parsing and the inline edit form all produce the same
  typed Row or a structured ValidationError, never loosely-typed data.

KEY CONCEPTS IN THIS FILE (types.go):
  - Row:     One Month/Revenue/Expenses/Profit record
  - Summary: Title plus created/updated timestamps (the list entry)
  - Sheet:   Summary plus the ordered rows (the persisted aggregate)

WIRE SHAPE:
  {"Month": "Jan", "Revenue": 100, "Expenses": 40, "Profit": 60}

  Numbers are emitted as JSON numbers. Decoding accepts JSON numbers or
  numeric strings ("100", " 40.5 ") because CSV-derived data arrives as
  text. Rows have no identifier field: local edit identifiers live in the
  views package and cannot leak onto the wire.

PRECISION:
  Revenue, Expenses and Profit are decimal.Decimal so edits round-trip
  exactly (no 0.1+0.2 drift between load and submit).

SEE ALSO:
  - errors.go: Sentinel and structured errors
  - csv.go:    CSV upload parsing
  - form.go:   Edit form validation
  - store.go:  Persistence interface
*/
package sheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FIELDS
// =============================================================================

// Field names a Row column. The string value is the wire/CSV header name.
type Field string

const (
	FieldMonth    Field = "Month"
	FieldRevenue  Field = "Revenue"
	FieldExpenses Field = "Expenses"
	FieldProfit   Field = "Profit"
)

// Fields lists the row columns in display order.
var Fields = []Field{FieldMonth, FieldRevenue, FieldExpenses, FieldProfit}

// Numeric reports whether the field holds a decimal value.
func (f Field) Numeric() bool {
	return f != FieldMonth
}

// =============================================================================
// ROW
// =============================================================================

// Row is one record of a sheet.
type Row struct {
	Month    string
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// NewRow builds a row from integer amounts. Mostly useful in tests and seeds.
func NewRow(month string, revenue, expenses, profit int64) Row {
	return Row{
		Month:    month,
		Revenue:  decimal.NewFromInt(revenue),
		Expenses: decimal.NewFromInt(expenses),
		Profit:   decimal.NewFromInt(profit),
	}
}

// Value returns the row's value for a numeric field.
func (r Row) Value(f Field) decimal.Decimal {
	switch f {
	case FieldRevenue:
		return r.Revenue
	case FieldExpenses:
		return r.Expenses
	case FieldProfit:
		return r.Profit
	}
	return decimal.Zero
}

// Text returns the display text for a field.
func (r Row) Text(f Field) string {
	if f == FieldMonth {
		return r.Month
	}
	return r.Value(f).String()
}

// Equal compares rows by value (1.0 equals 1).
func (r Row) Equal(o Row) bool {
	return r.Month == o.Month &&
		r.Revenue.Equal(o.Revenue) &&
		r.Expenses.Equal(o.Expenses) &&
		r.Profit.Equal(o.Profit)
}

// Validate checks the invariants JSON decoding cannot express on its own.
// A zero Row (e.g. built in code) fails on the blank Month.
func (r Row) Validate() error {
	if strings.TrimSpace(r.Month) == "" {
		return &ValidationError{Fields: []FieldError{{Field: FieldMonth, Message: "Please Input Month!"}}}
	}
	return nil
}

type wireRow struct {
	Month    string          `json:"Month"`
	Revenue  json.RawMessage `json:"Revenue"`
	Expenses json.RawMessage `json:"Expenses"`
	Profit   json.RawMessage `json:"Profit"`
}

// MarshalJSON emits the wire shape with numbers unquoted.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRow{
		Month:    r.Month,
		Revenue:  json.RawMessage(r.Revenue.String()),
		Expenses: json.RawMessage(r.Expenses.String()),
		Profit:   json.RawMessage(r.Profit.String()),
	})
}

// UnmarshalJSON decodes and validates the wire shape. Missing, null, blank or
// non-numeric fields produce a *ValidationError listing every bad field.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw struct {
		Month    *json.RawMessage `json:"Month"`
		Revenue  json.RawMessage  `json:"Revenue"`
		Expenses json.RawMessage  `json:"Expenses"`
		Profit   json.RawMessage  `json:"Profit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	verr := &ValidationError{}
	var row Row

	if raw.Month == nil {
		verr.Add(FieldMonth, "Please Input Month!")
	} else {
		var month any
		if err := json.Unmarshal(*raw.Month, &month); err != nil {
			return err
		}
		switch v := month.(type) {
		case string:
			row.Month = v
		case float64:
			// Months exported from spreadsheets sometimes arrive as numbers.
			row.Month = strings.TrimSpace(string(*raw.Month))
		}
		if strings.TrimSpace(row.Month) == "" {
			verr.Add(FieldMonth, "Please Input Month!")
		}
	}

	row.Revenue = decodeNumber(raw.Revenue, FieldRevenue, verr)
	row.Expenses = decodeNumber(raw.Expenses, FieldExpenses, verr)
	row.Profit = decodeNumber(raw.Profit, FieldProfit, verr)

	if verr.HasErrors() {
		return verr
	}
	*r = row
	return nil
}

func decodeNumber(raw json.RawMessage, f Field, verr *ValidationError) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		verr.Add(f, "Please Input "+string(f)+"!")
		return decimal.Zero
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			verr.Add(f, "must be a number")
			return decimal.Zero
		}
		text = s
	}

	d, err := ParseNumber(text)
	if err != nil {
		if strings.TrimSpace(text) == "" {
			verr.Add(f, "Please Input "+string(f)+"!")
		} else {
			verr.Add(f, "must be a number")
		}
		return decimal.Zero
	}
	return d
}

// DecodeRows decodes a JSON row array element by element so that field
// errors carry their row index.
func DecodeRows(raw []json.RawMessage) ([]Row, error) {
	rows := make([]Row, 0, len(raw))
	verr := &ValidationError{}
	for i, msg := range raw {
		var r Row
		err := json.Unmarshal(msg, &r)
		var rowErr *ValidationError
		switch {
		case errors.As(err, &rowErr):
			for _, fe := range rowErr.Fields {
				fe.Row = i
				verr.Fields = append(verr.Fields, fe)
			}
		case err != nil:
			return nil, fmt.Errorf("row %d: %w", i, err)
		default:
			rows = append(rows, r)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}
	return rows, nil
}

// thousandsPattern matches a number whose commas group digits in threes.
var thousandsPattern = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber parses number-like text: surrounding spaces and thousands
// separators are tolerated ("1,200.50"). Commas anywhere else ("12,34") are
// rejected.
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsPattern.MatchString(s) {
			return decimal.Decimal{}, fmt.Errorf("misplaced thousands separator in %q", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// =============================================================================
// SUMMARY & SHEET
// =============================================================================

// Summary is the list entry for a sheet.
type Summary struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sheet is a summary plus its ordered rows.
type Sheet struct {
	Summary
	Rows []Row
}

// ValidateTitle checks a user-chosen sheet title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	return nil
}
