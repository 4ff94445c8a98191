// Package report builds the income and expense report: per-year pages with a monthly bar
// chart, a category heatmap and a spending pie chart, followed by a historical summary page.
// The document is written as PDF and every page is also saved as a PNG image.
package report

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// Default values for Config.
const (
	DefaultDocumentDir    = "."
	DefaultImageDir       = "./figures"
	DefaultIncomeCategory = "Income"
	HistoricalImageName   = "HISTORICAL_INCOME_EXPENSES.png"
)

// DefaultSpendingExclusions are the overall categories that are never counted as spending.
var DefaultSpendingExclusions = []string{"Income", "Transfer", "Reimbursement", "Credit Card Payment", "Loans"}

// DefaultRetirementAccounts are accounts whose rows are left out of spending.
var DefaultRetirementAccounts = []string{"401(k) Plan"}

// Config selects what the report counts as spending and where it is written.
type Config struct {
	// DocumentPath overrides the generated <month>_<year>_Report.pdf name.
	DocumentPath          string
	DocumentDir           string
	ImageDir              string
	YearlyExcludeCategory string
	IncomeCategory        string
	SpendingExclusions    []string
	RetirementAccounts    []string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DocumentDir:        DefaultDocumentDir,
		ImageDir:           DefaultImageDir,
		IncomeCategory:     DefaultIncomeCategory,
		SpendingExclusions: slices.Clone(DefaultSpendingExclusions),
		RetirementAccounts: slices.Clone(DefaultRetirementAccounts),
	}
}

// normalized fills unset fields with defaults and copies the slices so later changes
// by the caller cannot leak into a running report.
func (c Config) normalized() Config {
	if c.DocumentDir == "" {
		c.DocumentDir = DefaultDocumentDir
	}
	if c.ImageDir == "" {
		c.ImageDir = DefaultImageDir
	}
	if c.IncomeCategory == "" {
		c.IncomeCategory = DefaultIncomeCategory
	}
	if c.SpendingExclusions == nil {
		c.SpendingExclusions = DefaultSpendingExclusions
	}
	if c.RetirementAccounts == nil {
		c.RetirementAccounts = DefaultRetirementAccounts
	}
	c.SpendingExclusions = slices.Clone(c.SpendingExclusions)
	c.RetirementAccounts = slices.Clone(c.RetirementAccounts)
	return c
}

// ReportPath returns where the PDF is written for a run at now.
func (c Config) ReportPath(now time.Time) string {
	if c.DocumentPath != "" {
		return c.DocumentPath
	}
	dir := c.DocumentDir
	if dir == "" {
		dir = DefaultDocumentDir
	}
	return filepath.Join(dir, fmt.Sprintf("%d_%d_Report.pdf", int(now.Month()), now.Year()))
}

// YearImagePath returns the standalone image path for a year's page.
func (c Config) YearImagePath(year int) string {
	return filepath.Join(c.imageDir(), fmt.Sprintf("%d_breakdown.png", year))
}

// HistoricalImagePath returns the standalone image path for the historical page.
func (c Config) HistoricalImagePath() string {
	return filepath.Join(c.imageDir(), HistoricalImageName)
}

func (c Config) imageDir() string {
	if c.ImageDir == "" {
		return DefaultImageDir
	}
	return c.ImageDir
}
