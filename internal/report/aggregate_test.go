package report

import (
	"testing"
	"time"

	"github.com/Veraticus/mintflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txn builds an enriched row. An empty overall category leaves the row unmapped.
func txn(year, month int, amount float64, category, overall, account string) model.Transaction {
	tt := model.Credit
	if amount < 0 {
		tt = model.Debit
	}
	return model.Transaction{
		Date:            time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Description:     category,
		Category:        category,
		OverallCategory: overall,
		AccountName:     account,
		Type:            tt,
		Amount:          amount,
		Year:            year,
		Month:           month,
		Day:             1,
		Mapped:          overall != "",
	}
}

// uniformYears returns a table with $1000 of food spending and $2000 of pay in every month of
// each year.
func uniformYears(years ...int) *model.Table {
	var rows []model.Transaction
	for _, y := range years {
		for m := 1; m <= 12; m++ {
			rows = append(rows,
				txn(y, m, -1000, "Groceries", "Food", "Checking"),
				txn(y, m, 2000, "Paycheck", "Income", "Checking"),
			)
		}
	}
	return model.NewTable(rows)
}

func spendingTotal(table *model.Table) float64 {
	var total float64
	table.Each(func(tx model.Transaction) { total -= tx.Amount })
	return total
}

func TestSpendingSubset(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, -50, "Groceries", "Food", "Checking"),
		txn(2024, 1, 3000, "Bonus", "Income", "Checking"),
		txn(2024, 1, -500, "Card Payment", "Credit Card Payment", "Checking"),
		txn(2024, 1, -200, "Contribution", "Savings", "401(k) Plan"),
		txn(2024, 1, -75, "Mystery", "", "Visa"),
	})

	spending := SpendingSubset(table, DefaultConfig())
	rows := spending.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Groceries", rows[0].Category)
	assert.Equal(t, "Mystery", rows[1].Category)

	assert.Equal(t, 5, table.Len(), "source table must not change")
}

func TestSpendingSubset_IncomeMappedCategoryExcluded(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, 150, "Interest Paid", "Income", "Savings"),
		txn(2024, 1, -20, "Coffee", "Food", "Checking"),
	})

	cfg := DefaultConfig()
	cfg.SpendingExclusions = []string{"Income"}

	spending := SpendingSubset(table, cfg)
	require.Equal(t, 1, spending.Len())
	assert.Equal(t, "Coffee", spending.Rows()[0].Category)

	income := IncomeSubset(table, cfg)
	require.Equal(t, 1, income.Len())
	assert.Equal(t, "Interest Paid", income.Rows()[0].Category)
}

func TestSpendingSubset_EmptyMapping(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, -50, "Groceries", "", "Checking"),
		txn(2024, 2, 3000, "Paycheck", "", "Checking"),
		txn(2024, 2, -200, "Contribution", "", "401(k) Plan"),
	})

	spending := SpendingSubset(table, DefaultConfig())
	assert.Equal(t, 2, spending.Len())
	assert.Equal(t, 0, IncomeSubset(table, DefaultConfig()).Len())
}

func TestMonthlyComparison_UnionOfMonths(t *testing.T) {
	spending := model.NewTable([]model.Transaction{
		txn(2023, 12, -300, "Rent", "Housing", "Checking"),
		txn(2024, 1, -100, "Food", "Food", "Checking"),
		txn(2024, 1, -50, "Food", "Food", "Checking"),
	})
	income := model.NewTable([]model.Transaction{
		txn(2024, 1, 1000, "Pay", "Income", "Checking"),
		txn(2024, 2, 1200, "Pay", "Income", "Checking"),
	})

	data := MonthlyComparison(spending, income)
	assert.Equal(t, []string{"Dec-23", "Jan-24", "Feb-24"}, data.Labels)

	expenses, ok := data.Lookup(ExpensesSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{300, 150, 0}, expenses.Values)
	assert.Equal(t, []bool{true, true, false}, expenses.Present)
	assert.Equal(t, 225.0, expenses.Mean())

	earned, ok := data.Lookup(IncomeSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1000, 1200}, earned.Values)
	assert.Equal(t, []bool{false, true, true}, earned.Present)
	assert.Equal(t, 1100.0, earned.Mean())
	assert.Equal(t, 1200.0, data.Max())
}

func TestMonthlyComparison_MeanSkipsMonthsWithoutData(t *testing.T) {
	var spendingRows []model.Transaction
	for m := 1; m <= 12; m++ {
		spendingRows = append(spendingRows, txn(2024, m, -1000, "Groceries", "Food", "Checking"))
	}
	income := model.NewTable([]model.Transaction{
		txn(2024, 1, 6000, "Bonus", "Income", "Checking"),
		txn(2024, 7, 6000, "Bonus", "Income", "Checking"),
	})

	data := MonthlyComparison(model.NewTable(spendingRows), income)
	require.Len(t, data.Labels, 12)

	earned, ok := data.Lookup(IncomeSeries)
	require.True(t, ok)
	assert.Equal(t, 6000.0, earned.Mean())
	assert.True(t, earned.Has(0))
	assert.False(t, earned.Has(1))
	assert.Equal(t, 0.0, earned.Values[1])
	assert.Equal(t, "AVG INCOME: $6,000", MeanLabel(earned.Name, earned.Mean()))

	expenses, _ := data.Lookup(ExpensesSeries)
	assert.Equal(t, 1000.0, expenses.Mean())
}

func TestSeriesMean(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		want   float64
	}{
		{name: "all present", series: Series{Values: []float64{1, 2, 3}}, want: 2},
		{name: "some missing", series: Series{Values: []float64{4, 0, 8}, Present: []bool{true, false, true}}, want: 6},
		{name: "present zero counts", series: Series{Values: []float64{4, 0}, Present: []bool{true, true}}, want: 2},
		{name: "none present", series: Series{Values: []float64{0, 0}, Present: []bool{false, false}}, want: 0},
		{name: "empty", series: Series{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.series.Mean())
		})
	}
}

func TestYearlyComparison_TwoUniformYears(t *testing.T) {
	table := uniformYears(2022, 2023)
	cfg := DefaultConfig()

	data := YearlyComparison(SpendingSubset(table, cfg), IncomeSubset(table, cfg), "")
	assert.Equal(t, []string{"2022", "2023"}, data.Labels)
	require.Len(t, data.Series, 2)

	expenses, _ := data.Lookup(ExpensesSeries)
	income, _ := data.Lookup(IncomeSeries)
	assert.Equal(t, []float64{12000, 12000}, expenses.Values)
	assert.Equal(t, []float64{24000, 24000}, income.Values)
	assert.Equal(t, 12000.0, expenses.Mean())
	assert.Equal(t, 24000.0, income.Mean())
	assert.Equal(t, "AVG EXPENSES: $12,000", MeanLabel(expenses.Name, expenses.Mean()))
}

func TestYearlyComparison_ExcludedCategorySeries(t *testing.T) {
	spending := model.NewTable([]model.Transaction{
		txn(2023, 3, -1000, "Rent", "Housing", "Checking"),
		txn(2023, 4, -200, "Food", "Food", "Checking"),
		txn(2024, 1, -300, "Food", "Food", "Checking"),
	})
	income := model.NewTable([]model.Transaction{
		txn(2024, 1, 5000, "Pay", "Income", "Checking"),
	})

	data := YearlyComparison(spending, income, "Housing")
	require.Len(t, data.Series, 3)
	assert.Equal(t, ExpensesSeries, data.Series[0].Name)
	assert.Equal(t, "Expenses - No Housing", data.Series[1].Name)
	assert.Equal(t, IncomeSeries, data.Series[2].Name)

	assert.Equal(t, []float64{1200, 300}, data.Series[0].Values)
	assert.Equal(t, []float64{200, 300}, data.Series[1].Values)
	assert.Equal(t, []float64{0, 5000}, data.Series[2].Values)
}

func TestCategoryHeatmap(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, -100, "Groceries", "Food", "Checking"),
		txn(2024, 1, -25.5, "Cafe", "Food", "Checking"),
		txn(2024, 3, -900, "Rent", "Housing", "Checking"),
		txn(2024, 3, -40, "Mystery", "", "Visa"),
		txn(2024, 3, 10, "Refund", "Food", "Visa"),
	})

	h := CategoryHeatmap(table)
	assert.Equal(t, []string{"Food", "Housing", UnmappedLabel}, h.Categories)
	assert.Equal(t, []int{1, 3}, h.Months)
	assert.Equal(t, [][]float64{
		{125.5, -10},
		{0, 900},
		{0, 40},
	}, h.Values)
	assert.InDeltaSlice(t, []float64{57.75, 450, 20}, h.Averages, 1e-9)
	assert.Equal(t, []string{"Jan", "Mar", "Avg"}, h.ColumnLabels())
}

func TestCategoryHeatmap_TotalMatchesSubset(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, -100.25, "Groceries", "Food", "Checking"),
		txn(2024, 2, -900, "Rent", "Housing", "Checking"),
		txn(2024, 2, -12.75, "Mystery", "", "Visa"),
		txn(2024, 5, -33.1, "Cafe", "Food", "Visa"),
		txn(2024, 7, 5000, "Pay", "Income", "Checking"),
	})

	spending := SpendingSubset(table, DefaultConfig())
	h := CategoryHeatmap(spending)
	assert.InDelta(t, spendingTotal(spending), h.Total(), 1e-9)
}

func TestSpendingBreakdown(t *testing.T) {
	table := model.NewTable([]model.Transaction{
		txn(2024, 1, -60, "Groceries", "Food", "Checking"),
		txn(2024, 1, -40, "Cafe", "Food", "Checking"),
		txn(2024, 1, -300, "Rent", "Housing", "Checking"),
		txn(2024, 1, 20, "Refund", "Shopping", "Visa"),
		txn(2024, 1, -5, "Mystery", "", "Visa"),
	})

	slices := SpendingBreakdown(table)
	assert.Equal(t, []PieSlice{
		{Label: "Food", Value: 100},
		{Label: "Housing", Value: 300},
		{Label: UnmappedLabel, Value: 5},
		{Label: CreditsSlice, Value: -20},
	}, slices)
}

func TestSpendingBreakdown_SumsToSpendingTotal(t *testing.T) {
	tests := []struct {
		name string
		rows []model.Transaction
	}{
		{
			name: "refunds outweigh a category",
			rows: []model.Transaction{
				txn(2024, 2, -1000, "Groceries", "Food", "Checking"),
				txn(2024, 2, 200, "Return", "Shopping", "Visa"),
			},
		},
		{
			name: "many small categories and a wash",
			rows: []model.Transaction{
				txn(2024, 2, -950, "Rent", "Housing", "Checking"),
				txn(2024, 2, -10, "Gum", "Snacks", "Checking"),
				txn(2024, 2, -15, "Tea", "Drinks", "Checking"),
				txn(2024, 2, -40, "Coat", "Shopping", "Visa"),
				txn(2024, 2, 40, "Coat return", "Shopping", "Visa"),
				txn(2024, 2, 30, "Cashback", "Rewards", "Visa"),
			},
		},
		{
			name: "no refunds",
			rows: []model.Transaction{
				txn(2024, 2, -60, "Groceries", "Food", "Checking"),
				txn(2024, 2, -40, "Mystery", "", "Visa"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subset := model.NewTable(tt.rows)
			want := -subset.Sum()

			var sum float64
			for _, s := range FoldSmallSlices(SpendingBreakdown(subset), SmallSliceThreshold) {
				sum += s.Value
			}
			assert.InDelta(t, want, sum, 1e-9)
		})
	}
}

func TestFoldSmallSlices(t *testing.T) {
	tests := []struct {
		name      string
		in        []PieSlice
		want      []PieSlice
		threshold float64
	}{
		{
			name:      "exactly three percent is kept",
			in:        []PieSlice{{"A", 97}, {"B", 3}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"A", 97}, {"B", 3}},
		},
		{
			name:      "two percent folds into other",
			in:        []PieSlice{{"A", 98}, {"B", 2}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"A", 98}, {OtherSlice, 2}},
		},
		{
			name:      "several small slices share one other",
			in:        []PieSlice{{"A", 1}, {"B", 96}, {"C", 1}, {"D", 2}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"B", 96}, {OtherSlice, 4}},
		},
		{
			name:      "nothing to fold",
			in:        []PieSlice{{"A", 50}, {"B", 50}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"A", 50}, {"B", 50}},
		},
		{
			// B is 2.72% of gross spending but 3.38% of the net total.
			name:      "shares use the net total and credits are never folded",
			in:        []PieSlice{{"A", 100}, {"B", 2.8}, {CreditsSlice, -20}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"A", 100}, {"B", 2.8}, {CreditsSlice, -20}},
		},
		{
			name:      "small slice folds ahead of credits",
			in:        []PieSlice{{"A", 100}, {"B", 2}, {CreditsSlice, -20}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"A", 100}, {OtherSlice, 2}, {CreditsSlice, -20}},
		},
		{
			name:      "folded amount joins an existing other category",
			in:        []PieSlice{{"A", 1}, {"B", 90}, {OtherSlice, 9}},
			threshold: SmallSliceThreshold,
			want:      []PieSlice{{"B", 90}, {OtherSlice, 10}},
		},
		{
			name:      "empty",
			in:        nil,
			threshold: SmallSliceThreshold,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldSmallSlices(tt.in, tt.threshold)
			assert.Equal(t, tt.want, got)

			var before, after float64
			for _, s := range tt.in {
				before += s.Value
			}
			for _, s := range got {
				after += s.Value
			}
			assert.InDelta(t, before, after, 1e-9)
		})
	}
}

func TestFoldSmallSlices_SharesOfOriginalTotal(t *testing.T) {
	// B is 2.95% of the original total but 3.01% of what is left once A is folded.
	in := []PieSlice{{"A", 20}, {"B", 29.5}, {"C", 950.5}}
	got := FoldSmallSlices(in, SmallSliceThreshold)
	assert.Equal(t, []PieSlice{{"C", 950.5}, {OtherSlice, 49.5}}, got)
}
