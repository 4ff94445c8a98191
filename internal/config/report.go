package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/mapping"
	"github.com/Veraticus/mintflow/internal/normalize"
	"github.com/Veraticus/mintflow/internal/report"
	"github.com/spf13/viper"
)

// Viper keys read by LoadReportSettings.
const (
	KeyInput              = "report.input"
	KeyMapping            = "report.mapping"
	KeyDocumentDir        = "report.pdf_dir"
	KeyDocumentPath       = "report.pdf_path"
	KeyImageDir           = "report.fig_dir"
	KeyYearlyExclude      = "report.yearly_exclude"
	KeyIncomeCategory     = "report.income_category"
	KeyExclusions         = "report.exclude"
	KeyRetirementAccounts = "report.retirement_accounts"
	KeyAmountFormat       = "report.amount_format"
	KeyWorkbook           = "report.xlsx"
)

// Input formats recognized by file extension.
const (
	InputCSV    = "csv"
	InputOFX    = "ofx"
	InputSQLite = "sqlite"
)

// ReportSettings is everything the report command needs.
type ReportSettings struct {
	InputPath    string
	InputFormat  string
	MappingPath  string
	WorkbookPath string
	AmountFormat normalize.AmountFormat
	Report       report.Config
}

// LoadReportSettings reads report settings from v, falling back to defaults for anything unset.
// Paths have ~ and environment variables expanded.
func LoadReportSettings(v *viper.Viper) (*ReportSettings, error) {
	settings := &ReportSettings{
		InputPath:    ExpandPath(v.GetString(KeyInput)),
		MappingPath:  ExpandPath(v.GetString(KeyMapping)),
		WorkbookPath: ExpandPath(v.GetString(KeyWorkbook)),
		Report:       report.DefaultConfig(),
	}

	if settings.InputPath == "" {
		return nil, fmt.Errorf("%w: no input file given (--input or %s)", common.ErrMissingConfig, KeyInput)
	}
	format, err := InputFormat(settings.InputPath)
	if err != nil {
		return nil, err
	}
	settings.InputFormat = format

	if settings.MappingPath == "" {
		settings.MappingPath = mapping.DefaultPath
	}

	settings.AmountFormat, err = normalize.ParseAmountFormat(v.GetString(KeyAmountFormat))
	if err != nil {
		return nil, err
	}

	cfg := &settings.Report
	if s := v.GetString(KeyDocumentDir); s != "" {
		cfg.DocumentDir = ExpandPath(s)
	}
	cfg.DocumentPath = ExpandPath(v.GetString(KeyDocumentPath))
	if s := v.GetString(KeyImageDir); s != "" {
		cfg.ImageDir = ExpandPath(s)
	}
	cfg.YearlyExcludeCategory = strings.TrimSpace(v.GetString(KeyYearlyExclude))
	if s := strings.TrimSpace(v.GetString(KeyIncomeCategory)); s != "" {
		cfg.IncomeCategory = s
	}
	if v.IsSet(KeyExclusions) {
		cfg.SpendingExclusions = cleanList(v.GetStringSlice(KeyExclusions))
	}
	if v.IsSet(KeyRetirementAccounts) {
		cfg.RetirementAccounts = cleanList(v.GetStringSlice(KeyRetirementAccounts))
	}

	return settings, nil
}

// InputFormat picks the input adapter from a file extension.
func InputFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return InputCSV, nil
	case ".ofx", ".qfx":
		return InputOFX, nil
	case ".db", ".sqlite", ".sqlite3":
		return InputSQLite, nil
	default:
		return "", fmt.Errorf("%w: unsupported input file %q (expected .csv, .ofx, .qfx, .db or .sqlite)", common.ErrInvalidConfig, path)
	}
}

// cleanList trims entries and drops empty ones. The result is never nil, so an explicitly
// empty list stays empty instead of reverting to the default.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
