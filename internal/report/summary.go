package report

import (
	"strconv"
	"time"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/model"
)

// YearView holds everything drawn on one year's page.
type YearView struct {
	Heatmap  Heatmap
	PieTitle string
	Monthly  BarData
	Pie      []PieSlice
	Year     int
	// PieMonth is the month the pie covers, or 0 for the whole year.
	PieMonth int
}

// HistoricalView holds the two charts of the final page.
type HistoricalView struct {
	Yearly  BarData
	Monthly BarData
}

// Summary is the complete set of aggregates behind a report.
type Summary struct {
	GeneratedAt time.Time
	// Years is ordered most recent first.
	Years      []YearView
	Historical HistoricalView
}

// PiePeriod picks the period the pie chart of year covers. For the current year that is the
// most recently completed month; in January no month of the current year is complete yet,
// so the whole year so far is used. Earlier years use the whole year.
func PiePeriod(year int, now time.Time) (month int, title string) {
	if year == now.Year() && now.Month() > time.January {
		m := int(now.Month()) - 1
		return m, MonthAbbr(m)
	}
	return 0, strconv.Itoa(year)
}

// Summarize computes every view of the report without rendering anything.
func Summarize(table *model.Table, cfg Config, now time.Time) (*Summary, error) {
	cfg = cfg.normalized()

	spending := SpendingSubset(table, cfg)
	income := IncomeSubset(table, cfg)
	if spending.Len() == 0 {
		return nil, &common.EmptyDataError{Subset: "spending"}
	}
	if income.Len() == 0 {
		return nil, &common.EmptyDataError{Subset: "income"}
	}

	summary := &Summary{GeneratedAt: now}
	for _, year := range spending.Years() {
		view, err := summarizeYear(spending, income, year, now)
		if err != nil {
			return nil, err
		}
		summary.Years = append(summary.Years, view)
	}

	summary.Historical = HistoricalView{
		Yearly:  YearlyComparison(spending, income, cfg.YearlyExcludeCategory),
		Monthly: MonthlyComparison(spending, income),
	}
	return summary, nil
}

func summarizeYear(spending, income *model.Table, year int, now time.Time) (YearView, error) {
	yearSpending := InYear(spending, year)
	yearIncome := InYear(income, year)
	if yearIncome.Len() == 0 {
		return YearView{}, &common.EmptyDataError{Year: year, Subset: "income"}
	}

	view := YearView{
		Year:    year,
		Monthly: MonthlyComparison(yearSpending, yearIncome),
		Heatmap: CategoryHeatmap(yearSpending),
	}

	view.PieMonth, view.PieTitle = PiePeriod(year, now)
	pieRows := yearSpending
	if view.PieMonth != 0 {
		month := view.PieMonth
		pieRows = yearSpending.Filter(func(tx model.Transaction) bool { return tx.Month == month })
		// Exports often stop before the last completed month.
		if pieRows.Len() == 0 {
			view.PieMonth, view.PieTitle = 0, strconv.Itoa(year)
			pieRows = yearSpending
		}
	}
	view.Pie = FoldSmallSlices(SpendingBreakdown(pieRows), SmallSliceThreshold)

	return view, nil
}
