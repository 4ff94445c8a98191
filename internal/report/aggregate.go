package report

import (
	"slices"
	"sort"

	"github.com/Veraticus/mintflow/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series names used in charts and exports.
const (
	ExpensesSeries = "Expenses"
	IncomeSeries   = "Income"
	OtherSlice     = "Other"
	// CreditsSlice collects categories whose refunds outweigh their spending in a period.
	CreditsSlice = "Credits"
	// UnmappedLabel groups rows whose category has no mapping entry.
	UnmappedLabel = "Unmapped"
	// SmallSliceThreshold is the share of the total below which a pie slice is folded into Other.
	SmallSliceThreshold = 0.03
)

// SpendingSubset keeps rows whose overall category is not excluded and whose account is
// not a retirement account. Unmapped rows are never excluded by category.
func SpendingSubset(table *model.Table, cfg Config) *model.Table {
	cfg = cfg.normalized()
	return table.Filter(func(tx model.Transaction) bool {
		if tx.Mapped && slices.Contains(cfg.SpendingExclusions, tx.OverallCategory) {
			return false
		}
		return !slices.Contains(cfg.RetirementAccounts, tx.AccountName)
	})
}

// IncomeSubset keeps rows mapped to the income category.
func IncomeSubset(table *model.Table, cfg Config) *model.Table {
	cfg = cfg.normalized()
	return table.Filter(func(tx model.Transaction) bool {
		return tx.InCategory(cfg.IncomeCategory)
	})
}

// InYear returns the rows of table dated in year.
func InYear(table *model.Table, year int) *model.Table {
	return table.Filter(func(tx model.Transaction) bool { return tx.Year == year })
}

// Series is one named run of values aligned with BarData.Labels.
type Series struct {
	Name   string
	Values []float64
	// Present marks the labels the series has data for. Missing labels hold a zero value.
	// A nil Present means every value is present.
	Present []bool
}

// Has reports whether the series has data for label i.
func (s Series) Has(i int) bool {
	return s.Present == nil || s.Present[i]
}

// Mean returns the arithmetic mean of the present values, or 0 when none are present.
func (s Series) Mean() float64 {
	if s.Present == nil {
		if len(s.Values) == 0 {
			return 0
		}
		return stat.Mean(s.Values, nil)
	}

	weights := make([]float64, len(s.Values))
	for i := range s.Values {
		if s.Present[i] {
			weights[i] = 1
		}
	}
	if floats.Sum(weights) == 0 {
		return 0
	}
	return stat.Mean(s.Values, weights)
}

func newSeries(name string, n int) Series {
	return Series{Name: name, Values: make([]float64, n), Present: make([]bool, n)}
}

// Total returns the sum of the values.
func (s Series) Total() float64 {
	return floats.Sum(s.Values)
}

// BarData is a grouped bar chart: one group per label, one bar per series.
type BarData struct {
	Labels []string
	Series []Series
}

// Lookup returns the series with the given name.
func (b BarData) Lookup(name string) (Series, bool) {
	for _, s := range b.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// Max returns the largest value across all series.
func (b BarData) Max() float64 {
	best := 0.0
	for _, s := range b.Series {
		if len(s.Values) > 0 {
			best = max(best, floats.Max(s.Values))
		}
	}
	return best
}

type yearMonth struct {
	year, month int
}

func groupByMonth(table *model.Table) map[yearMonth]float64 {
	sums := make(map[yearMonth]float64)
	table.Each(func(tx model.Transaction) {
		sums[yearMonth{tx.Year, tx.Month}] += tx.Amount
	})
	return sums
}

func groupByYear(table *model.Table) map[int]float64 {
	sums := make(map[int]float64)
	table.Each(func(tx model.Transaction) {
		sums[tx.Year] += tx.Amount
	})
	return sums
}

// MonthlyComparison aggregates spending and income per (year, month) over the union of months
// present in either subset, in chronological order. Expenses are shown as positive magnitudes.
// A month missing from one subset holds zero and is left out of that series' mean.
func MonthlyComparison(spending, income *model.Table) BarData {
	spent := groupByMonth(spending)
	earned := groupByMonth(income)

	keys := make([]yearMonth, 0, len(spent)+len(earned))
	for k := range spent {
		keys = append(keys, k)
	}
	for k := range earned {
		if _, ok := spent[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	data := BarData{
		Labels: make([]string, len(keys)),
		Series: []Series{
			newSeries(ExpensesSeries, len(keys)),
			newSeries(IncomeSeries, len(keys)),
		},
	}
	for i, k := range keys {
		data.Labels[i] = MonthYearLabel(k.year, k.month)
		v, ok := spent[k]
		data.Series[0].Values[i], data.Series[0].Present[i] = -v, ok
		v, ok = earned[k]
		data.Series[1].Values[i], data.Series[1].Present[i] = v, ok
	}
	return data
}

// YearlyComparison aggregates spending and income per year in ascending year order. When
// excludeCategory is set a third series shows spending without that overall category.
func YearlyComparison(spending, income *model.Table, excludeCategory string) BarData {
	spent := groupByYear(spending)
	earned := groupByYear(income)

	var excluded map[int]float64
	if excludeCategory != "" {
		excluded = groupByYear(spending.Filter(func(tx model.Transaction) bool {
			return !tx.InCategory(excludeCategory)
		}))
	}

	years := make([]int, 0, len(spent)+len(earned))
	for y := range spent {
		years = append(years, y)
	}
	for y := range earned {
		if _, ok := spent[y]; !ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	expenses := newSeries(ExpensesSeries, len(years))
	incomeSeries := newSeries(IncomeSeries, len(years))
	noCategory := newSeries(ExpensesSeries+" - No "+excludeCategory, len(years))

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = yearLabel(y)
		v, ok := spent[y]
		expenses.Values[i], expenses.Present[i] = -v, ok
		noCategory.Values[i], noCategory.Present[i] = -excluded[y], ok
		v, ok = earned[y]
		incomeSeries.Values[i], incomeSeries.Present[i] = v, ok
	}

	data := BarData{Labels: labels, Series: []Series{expenses}}
	if excludeCategory != "" {
		data.Series = append(data.Series, noCategory)
	}
	data.Series = append(data.Series, incomeSeries)
	return data
}

// Heatmap is spending magnitude by overall category (rows) and month (columns) for one year.
type Heatmap struct {
	Categories []string
	Months     []int
	// Values[row][col] holds the spending of Categories[row] in Months[col].
	Values [][]float64
	// Averages holds each category's mean over Months, missing months counted as zero.
	Averages []float64
}

// Total returns the sum of every cell, excluding the average column.
func (h Heatmap) Total() float64 {
	var total float64
	for _, row := range h.Values {
		total += floats.Sum(row)
	}
	return total
}

// ColumnLabels returns the month abbreviations followed by "Avg".
func (h Heatmap) ColumnLabels() []string {
	return HeatmapColumnLabels(h.Months)
}

// CategoryHeatmap pivots a spending subset into a category by month grid. Categories are
// sorted, months ascending.
func CategoryHeatmap(spending *model.Table) Heatmap {
	type cell struct {
		category string
		month    int
	}
	sums := make(map[cell]float64)
	categories := make(map[string]bool)
	months := make(map[int]bool)

	spending.Each(func(tx model.Transaction) {
		label := overallLabel(tx)
		sums[cell{label, tx.Month}] -= tx.Amount
		categories[label] = true
		months[tx.Month] = true
	})

	h := Heatmap{
		Categories: sortedKeys(categories),
		Months:     sortedInts(months),
	}
	h.Values = make([][]float64, len(h.Categories))
	h.Averages = make([]float64, len(h.Categories))
	for r, category := range h.Categories {
		row := make([]float64, len(h.Months))
		for c, month := range h.Months {
			row[c] = sums[cell{category, month}]
		}
		h.Values[r] = row
		h.Averages[r] = stat.Mean(row, nil)
	}
	return h
}

// PieSlice is one wedge of a spending breakdown.
type PieSlice struct {
	Label string
	Value float64
}

// SpendingBreakdown sums spending magnitude by overall category, sorted by category.
// Categories whose net spending is not positive cannot be drawn as wedges; their combined
// amount becomes a trailing CreditsSlice so the slices still sum to the period's spending.
func SpendingBreakdown(spending *model.Table) []PieSlice {
	sums := make(map[string]float64)
	spending.Each(func(tx model.Transaction) {
		sums[overallLabel(tx)] -= tx.Amount
	})

	out := make([]PieSlice, 0, len(sums)+1)
	var credits float64
	for _, label := range sortedKeys(sums) {
		if sums[label] > 0 {
			out = append(out, PieSlice{Label: label, Value: sums[label]})
			continue
		}
		credits += sums[label]
	}
	if credits < 0 {
		out = append(out, PieSlice{Label: CreditsSlice, Value: credits})
	}
	return out
}

// FoldSmallSlices moves every positive slice whose share of the original net total is below
// threshold into an "Other" slice. Shares are all measured against the total before any
// folding, so removing one slice never changes whether another is folded. A share exactly
// equal to the threshold is kept. The folded amount joins an existing "Other" slice when there
// is one; otherwise a new one follows the kept wedges. A negative CreditsSlice stays last.
func FoldSmallSlices(in []PieSlice, threshold float64) []PieSlice {
	var total float64
	for _, s := range in {
		total += s.Value
	}
	if total <= 0 {
		return slices.Clone(in)
	}

	kept := make([]PieSlice, 0, len(in)+1)
	var negative []PieSlice
	var other float64
	folded := false
	for _, s := range in {
		switch {
		case s.Value <= 0:
			negative = append(negative, s)
		case s.Value/total < threshold:
			other += s.Value
			folded = true
		default:
			kept = append(kept, s)
		}
	}

	if folded {
		if i := slices.IndexFunc(kept, func(s PieSlice) bool { return s.Label == OtherSlice }); i >= 0 {
			kept[i].Value += other
		} else {
			kept = append(kept, PieSlice{Label: OtherSlice, Value: other})
		}
	}
	return append(kept, negative...)
}

func overallLabel(tx model.Transaction) string {
	if !tx.Mapped {
		return UnmappedLabel
	}
	return tx.OverallCategory
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedInts(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
