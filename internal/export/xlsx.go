// Package export writes the aggregates behind a report to a spreadsheet workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	YearlySheet  = "Yearly"
	MonthlySheet = "Monthly"
)

const (
	colorHeader = "#2F4F4F"
	amountFmt   = "#,##0.00"
)

// CategorySheet returns the name of a year's category by month sheet.
func CategorySheet(year int) string {
	return strconv.Itoa(year) + " Categories"
}

// BreakdownSheet returns the name of a year's pie breakdown sheet.
func BreakdownSheet(year int) string {
	return strconv.Itoa(year) + " Breakdown"
}

type styles struct {
	header int
	amount int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	amountFormat := amountFmt
	amount, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &amountFormat,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create amount style: %w", err)
	}

	return styles{header: header, amount: amount}, nil
}

// Workbook builds a workbook with the yearly and monthly comparisons followed by a category
// sheet and a breakdown sheet for every year, most recent first.
func Workbook(summary *report.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", YearlySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	build := []func() error{
		func() error { return writeBars(f, st, YearlySheet, "Year", summary.Historical.Yearly) },
		func() error { return writeBars(f, st, MonthlySheet, "Month", summary.Historical.Monthly) },
	}
	for _, view := range summary.Years {
		build = append(build,
			func() error { return writeHeatmap(f, st, CategorySheet(view.Year), view.Heatmap) },
			func() error { return writePie(f, st, BreakdownSheet(view.Year), view.PieTitle, view.Pie) },
		)
	}
	for _, fn := range build {
		if err := fn(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write saves the workbook for summary at path.
func Write(path string, summary *report.Summary) error {
	f, err := Workbook(summary)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &common.IOError{Op: "create directory", Path: filepath.Dir(path), Err: err}
	}
	if err := f.SaveAs(path); err != nil {
		return &common.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func ensureSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %q: %w", name, err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, st styles, sheet string, headers []string) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(i+1, 1), h); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet, err)
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), st.header); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeBars(f *excelize.File, st styles, sheet, labelHeader string, data report.BarData) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}

	headers := []string{labelHeader}
	for _, s := range data.Series {
		headers = append(headers, s.Name)
	}
	if err := writeHeader(f, st, sheet, headers); err != nil {
		return err
	}

	for r, label := range data.Labels {
		row := r + 2
		if err := f.SetCellValue(sheet, cell(1, row), label); err != nil {
			return fmt.Errorf("failed to write %q: %w", sheet, err)
		}
		for c, s := range data.Series {
			if !s.Has(r) {
				continue
			}
			if err := f.SetCellValue(sheet, cell(c+2, row), s.Values[r]); err != nil {
				return fmt.Errorf("failed to write %q: %w", sheet, err)
			}
		}
	}

	meanRow := len(data.Labels) + 2
	if err := f.SetCellValue(sheet, cell(1, meanRow), "Average"); err != nil {
		return fmt.Errorf("failed to write %q: %w", sheet, err)
	}
	for c, s := range data.Series {
		if err := f.SetCellValue(sheet, cell(c+2, meanRow), s.Mean()); err != nil {
			return fmt.Errorf("failed to write %q: %w", sheet, err)
		}
	}

	if err := f.SetCellStyle(sheet, cell(2, 2), cell(len(headers), meanRow), st.amount); err != nil {
		return fmt.Errorf("failed to style %q: %w", sheet, err)
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to size %q: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func writeHeatmap(f *excelize.File, st styles, sheet string, h report.Heatmap) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}

	headers := append([]string{"Category"}, h.ColumnLabels()...)
	if err := writeHeader(f, st, sheet, headers); err != nil {
		return err
	}

	for r, category := range h.Categories {
		row := r + 2
		values := append(append([]any{category}, toAny(h.Values[r])...), h.Averages[r])
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return fmt.Errorf("failed to write %q: %w", sheet, err)
		}
	}

	if len(h.Categories) > 0 {
		if err := f.SetCellStyle(sheet, cell(2, 2), cell(len(headers), len(h.Categories)+1), st.amount); err != nil {
			return fmt.Errorf("failed to style %q: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func writePie(f *excelize.File, st styles, sheet, period string, slices []report.PieSlice) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, st, sheet, []string{period, "Amount", "Share"}); err != nil {
		return err
	}

	var total float64
	for _, s := range slices {
		total += s.Value
	}
	for i, s := range slices {
		share := report.PercentLabel(0)
		if total > 0 {
			share = report.PercentLabel(s.Value / total)
		}
		values := []any{s.Label, s.Value, share}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &values); err != nil {
			return fmt.Errorf("failed to write %q: %w", sheet, err)
		}
	}

	if len(slices) > 0 {
		if err := f.SetCellStyle(sheet, cell(2, 2), cell(2, len(slices)+1), st.amount); err != nil {
			return fmt.Errorf("failed to style %q: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func toAny(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
