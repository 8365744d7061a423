package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads an uploaded sheet. The header row must name Month, Revenue,
// Expenses and Profit (any case, any order); other columns are ignored.
// Blank lines are skipped. Every failure wraps ErrInvalidCSV.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &CSVError{Reason: "empty file"}
	}
	if err != nil {
		return nil, &CSVError{Line: 1, Reason: err.Error()}
	}

	cols := make(map[Field]int, len(Fields))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for _, f := range Fields {
			if strings.EqualFold(name, string(f)) {
				if _, dup := cols[f]; dup {
					return nil, &CSVError{Line: 1, Reason: fmt.Sprintf("duplicate column %q", f)}
				}
				cols[f] = i
			}
		}
	}
	for _, f := range Fields {
		if _, ok := cols[f]; !ok {
			return nil, &CSVError{Line: 1, Reason: fmt.Sprintf("missing column %q", f)}
		}
	}

	rows := []Row{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &CSVError{Reason: err.Error()}
		}
		line, _ := cr.FieldPos(0)
		if blankRecord(record) {
			continue
		}

		row, err := rowFromRecord(record, cols)
		if err != nil {
			return nil, &CSVError{Line: line, Reason: err.Error()}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowFromRecord(record []string, cols map[Field]int) (Row, error) {
	cell := func(f Field) string {
		if i := cols[f]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	row := Row{Month: cell(FieldMonth)}
	if row.Month == "" {
		return Row{}, fmt.Errorf("%s is empty", FieldMonth)
	}
	for _, f := range Fields[1:] {
		d, err := ParseNumber(cell(f))
		if err != nil {
			return Row{}, fmt.Errorf("%s %q is not a number", f, cell(f))
		}
		switch f {
		case FieldRevenue:
			row.Revenue = d
		case FieldExpenses:
			row.Expenses = d
		case FieldProfit:
			row.Profit = d
		}
	}
	return row, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes rows with the canonical header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(Fields))
	for i, f := range Fields {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, len(Fields))
		for i, f := range Fields {
			record[i] = r.Text(f)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
