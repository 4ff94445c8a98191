package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthYearLabel(t *testing.T) {
	tests := []struct {
		want  string
		year  int
		month int
	}{
		{year: 2023, month: 1, want: "Jan-23"},
		{year: 2024, month: 12, want: "Dec-24"},
		{year: 2005, month: 6, want: "Jun-05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthYearLabel(tt.year, tt.month))
		})
	}
}

func TestHeatmapColumnLabels(t *testing.T) {
	assert.Equal(t, []string{"Jan", "Feb", "Sep", "Avg"}, HeatmapColumnLabels([]int{1, 2, 9}))
	assert.Equal(t, []string{"Avg"}, HeatmapColumnLabels(nil))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		value float64
	}{
		{name: "small", value: 999, want: "999"},
		{name: "thousands", value: 1234.9, want: "1,234"},
		{name: "millions", value: 1234567, want: "1,234,567"},
		{name: "negative", value: -1500.7, want: "-1,500"},
		{name: "zero", value: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.value))
		})
	}
}

func TestValueLabels(t *testing.T) {
	assert.Equal(t, []string{"1,000", "2,500", "0"}, ValueLabels([]float64{1000, 2500.99, 0}))
}

func TestMeanLabel(t *testing.T) {
	assert.Equal(t, "AVG EXPENSES: $12,000", MeanLabel(ExpensesSeries, 12000))
	assert.Equal(t, "AVG INCOME: $24,000", MeanLabel(IncomeSeries, 24000.4))
}

func TestCreditsLabel(t *testing.T) {
	assert.Equal(t, "Credits: -$200", CreditsLabel(-200))
	assert.Equal(t, "Credits: -$1,500", CreditsLabel(-1500.5))
}

func TestYTicks(t *testing.T) {
	tests := []struct {
		name string
		want []float64
		max  float64
		step float64
	}{
		{name: "rounds up", max: 2500, step: 1000, want: []float64{0, 1000, 2000, 3000}},
		{name: "exact boundary", max: 3000, step: 1000, want: []float64{0, 1000, 2000, 3000}},
		{name: "yearly step", max: 24000, step: 10000, want: []float64{0, 10000, 20000, 30000}},
		{name: "no data", max: 0, step: 1000, want: []float64{0}},
		{name: "negative", max: -50, step: 1000, want: []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YTicks(tt.max, tt.step))
		})
	}
}

func TestPercentLabel(t *testing.T) {
	assert.Equal(t, "40%", PercentLabel(0.4))
	assert.Equal(t, "3%", PercentLabel(0.03))
	assert.Equal(t, "100%", PercentLabel(1))
}

func TestMonthAbbr(t *testing.T) {
	assert.Equal(t, "Jan", MonthAbbr(1))
	assert.Equal(t, "May", MonthAbbr(5))
	assert.Equal(t, "Dec", MonthAbbr(12))
}
