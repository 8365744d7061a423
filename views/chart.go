package views

import (
	"github.com/shopspring/decimal"

	"github.com/warp/sheet-editor/sheet"
)

// Series is one line of the editor chart.
type Series struct {
	Field  sheet.Field
	Values []decimal.Decimal
}

// Floats converts the values for plotting.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// Chart is Revenue, Expenses and Profit over Month.
type Chart struct {
	Months []string
	Series []Series
}

// Bounds returns the smallest and largest value across all series. Both are
// zero for an empty chart.
func (c Chart) Bounds() (lo, hi decimal.Decimal) {
	first := true
	for _, s := range c.Series {
		for _, v := range s.Values {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = decimal.Min(lo, v)
			hi = decimal.Max(hi, v)
		}
	}
	return lo, hi
}

// Chart derives the series from the current rows.
func (e *Editor) Chart() Chart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return chartOf(e.rows)
}

func chartOf(rows []EditorRow) Chart {
	c := Chart{Months: make([]string, len(rows))}
	for i, r := range rows {
		c.Months[i] = r.Row.Month
	}
	for _, f := range sheet.Fields {
		if !f.Numeric() {
			continue
		}
		s := Series{Field: f, Values: make([]decimal.Decimal, len(rows))}
		for i, r := range rows {
			s.Values[i] = r.Row.Value(f)
		}
		c.Series = append(c.Series, s)
	}
	return c
}
