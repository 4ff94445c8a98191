package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// MonthAbbr returns the three-letter month name, e.g. "Jan".
func MonthAbbr(month int) string {
	return time.Month(month).String()[:3]
}

// MonthYearLabel returns a tick label such as "Jan-23".
func MonthYearLabel(year, month int) string {
	return fmt.Sprintf("%s-%02d", MonthAbbr(month), year%100)
}

func yearLabel(year int) string {
	return strconv.Itoa(year)
}

// HeatmapColumnLabels returns month abbreviations followed by "Avg".
func HeatmapColumnLabels(months []int) []string {
	labels := make([]string, 0, len(months)+1)
	for _, m := range months {
		labels = append(labels, MonthAbbr(m))
	}
	return append(labels, "Avg")
}

// FormatAmount truncates v to whole units and groups thousands, e.g. 1234.9 -> "1,234".
func FormatAmount(v float64) string {
	return printer.Sprintf("%d", int64(v))
}

// ValueLabels formats every value for display above its bar.
func ValueLabels(values []float64) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = FormatAmount(v)
	}
	return labels
}

// MeanLabel annotates a mean line, e.g. "AVG EXPENSES: $1,000".
func MeanLabel(series string, mean float64) string {
	return fmt.Sprintf("AVG %s: $%s", strings.ToUpper(series), FormatAmount(mean))
}

// CreditsLabel captions the net credits of a pie period, e.g. "Credits: -$200".
func CreditsLabel(amount float64) string {
	return fmt.Sprintf("%s: -$%s", CreditsSlice, FormatAmount(-amount))
}

// YTicks returns tick values every step from 0 up to the first multiple of step that is at
// or above maxValue.
func YTicks(maxValue, step float64) []float64 {
	top := 0.0
	if maxValue > 0 {
		top = math.Ceil(maxValue/step) * step
	}
	n := int(math.Round(top / step))
	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, float64(i)*step)
	}
	return ticks
}
