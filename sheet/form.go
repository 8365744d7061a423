package sheet

import "strings"

// Form holds the raw text of an inline row edit. Values are kept as typed by
// the user until Validate turns them into a Row.
type Form struct {
	values map[Field]string
}

// FormFromRow pre-populates a form with a row's current values.
func FormFromRow(r Row) Form {
	f := Form{values: make(map[Field]string, len(Fields))}
	for _, field := range Fields {
		f.values[field] = r.Text(field)
	}
	return f
}

// Get returns the current text of a field.
func (f Form) Get(field Field) string {
	return f.values[field]
}

// Set replaces the text of a field. Unknown fields are ignored.
func (f *Form) Set(field Field, value string) {
	if !knownField(field) {
		return
	}
	if f.values == nil {
		f.values = make(map[Field]string, len(Fields))
	}
	f.values[field] = value
}

// Validate requires all four fields and parses the numeric ones. On failure
// the *ValidationError lists every bad field.
func (f Form) Validate() (Row, error) {
	verr := &ValidationError{}
	var row Row

	for _, field := range Fields {
		text := strings.TrimSpace(f.values[field])
		if text == "" {
			verr.Add(field, "Please Input "+string(field)+"!")
			continue
		}
		if !field.Numeric() {
			row.Month = text
			continue
		}
		d, err := ParseNumber(text)
		if err != nil {
			verr.Add(field, "must be a number")
			continue
		}
		switch field {
		case FieldRevenue:
			row.Revenue = d
		case FieldExpenses:
			row.Expenses = d
		case FieldProfit:
			row.Profit = d
		}
	}

	if verr.HasErrors() {
		return Row{}, verr
	}
	return row, nil
}

func knownField(field Field) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}
