package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXSheetName is the worksheet the export writes rows to. Sheet titles are
// free text and can break Excel's worksheet naming rules, so the title goes
// into the chart heading instead.
const XLSXSheetName = "Data"

// WriteXLSX exports a sheet as a workbook: a header row, one row per record,
// and a line chart of Revenue, Expenses and Profit by Month.
func WriteXLSX(w io.Writer, s *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]any, len(Fields))
	for i, field := range Fields {
		header[i] = string(field)
	}
	if err := f.SetSheetRow(XLSXSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Month,
			r.Revenue.InexactFloat64(),
			r.Expenses.InexactFloat64(),
			r.Profit.InexactFloat64(),
		}
		if err := f.SetSheetRow(XLSXSheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if len(s.Rows) > 0 {
		if err := f.AddChart(XLSXSheetName, "F2", lineChart(s)); err != nil {
			return fmt.Errorf("failed to add chart: %w", err)
		}
	}

	return f.Write(w)
}

func lineChart(s *Sheet) *excelize.Chart {
	last := len(s.Rows) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", XLSXSheetName, last)

	series := make([]excelize.ChartSeries, 0, len(Fields)-1)
	for i := range Fields[1:] {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", XLSXSheetName, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", XLSXSheetName, col, col, last),
		})
	}

	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: s.Title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
}
