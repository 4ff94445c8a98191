package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/mintflow/internal/cli"
	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/config"
	"github.com/Veraticus/mintflow/internal/export"
	"github.com/Veraticus/mintflow/internal/mapping"
	"github.com/Veraticus/mintflow/internal/normalize"
	"github.com/Veraticus/mintflow/internal/report"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the income and expense report",
		Long: `Read a transaction export, group its categories with the category mapping file and
write a PDF report with one page per year and a final historical page. Every page is also
saved as a PNG image.

Examples:
  # Report from a Mint CSV export
  mintflow report --input ~/Downloads/transactions.csv

  # Leave housing out of the third yearly series and write the tables to a workbook
  mintflow report --input ledger.db --yearly-exclude Housing --xlsx summary.xlsx

  # Only count these categories as non-spending
  mintflow report --input bank.qfx --exclude Income --exclude Transfer`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "transaction export (.csv, .ofx, .qfx, .db, .sqlite)")
	flags.StringP("mapping", "m", mapping.DefaultPath, "category mapping file (one \"category: overall category\" per line)")
	flags.String("pdf-dir", report.DefaultDocumentDir, "directory for the generated <month>_<year>_Report.pdf")
	flags.String("pdf-path", "", "explicit PDF path (overrides --pdf-dir)")
	flags.String("fig-dir", report.DefaultImageDir, "directory for the PNG images")
	flags.String("yearly-exclude", "", "overall category left out of an extra yearly expenses series")
	flags.String("income-category", report.DefaultIncomeCategory, "overall category counted as income")
	flags.StringSlice("exclude", nil, "overall category that is not spending (repeatable; default: "+
		strings.Join(report.DefaultSpendingExclusions, ", ")+")")
	flags.StringSlice("retirement-account", nil, "account left out of spending (repeatable; default: "+
		strings.Join(report.DefaultRetirementAccounts, ", ")+")")
	flags.String("amount-format", string(normalize.AmountAuto), "amount column format (auto, plain, currency)")
	flags.String("xlsx", "", "also write the chart tables to this XLSX workbook")

	return cmd
}

// reportFlagKeys maps viper keys to the flag names that set them.
var reportFlagKeys = map[string]string{
	config.KeyInput:              "input",
	config.KeyMapping:            "mapping",
	config.KeyDocumentDir:        "pdf-dir",
	config.KeyDocumentPath:       "pdf-path",
	config.KeyImageDir:           "fig-dir",
	config.KeyYearlyExclude:      "yearly-exclude",
	config.KeyIncomeCategory:     "income-category",
	config.KeyExclusions:         "exclude",
	config.KeyRetirementAccounts: "retirement-account",
	config.KeyAmountFormat:       "amount-format",
	config.KeyWorkbook:           "xlsx",
}

// bindReportFlags binds the flags cmd defines to their viper keys. Commands share keys, so
// binding happens when a command runs rather than when it is built.
func bindReportFlags(cmd *cobra.Command) error {
	for key, name := range reportFlagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	if err := bindReportFlags(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	runID := uuid.New().String()
	logger := slog.Default().With("run_id", runID)

	settings, err := config.LoadReportSettings(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid report configuration", err)
	}

	loaded, err := loadTransactions(ctx, settings, logger)
	if err != nil {
		return err
	}
	warnUnmapped(cmd, logger, settings.MappingPath, loaded.Unmapped)

	progress := cli.NewPageProgress(cmd.ErrOrStderr())
	generator := report.NewGenerator(settings.Report,
		report.WithLogger(logger),
		report.WithPageHook(progress.Update),
	)

	result, err := generator.Generate(ctx, loaded.Table)
	if err != nil {
		common.LogError(logger, err, "Report generation failed", common.Fields{
			"input": settings.InputPath,
		})
		return common.NewUserError("Report generation failed", err)
	}

	if settings.WorkbookPath != "" {
		if err := export.Write(settings.WorkbookPath, result.Summary); err != nil {
			return common.NewUserError("Could not write workbook", err)
		}
		common.LogInfo(logger, "Workbook written", common.Fields{"path": settings.WorkbookPath})
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Report Complete", reportFields(settings, loaded, result)))
	return nil
}

func warnUnmapped(cmd *cobra.Command, logger *slog.Logger, mappingPath string, unmapped []normalize.UnmappedCategory) {
	if len(unmapped) == 0 {
		return
	}

	names := make([]string, len(unmapped))
	for i, u := range unmapped {
		names[i] = u.Category
	}
	logger.Warn("Categories missing from mapping",
		"mapping", mappingPath,
		"count", len(unmapped),
		"categories", names)

	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf(
		"%d categories are not in %s and are reported as %q (see: mintflow categories unmapped)",
		len(unmapped), mappingPath, report.UnmappedLabel)))
}

// totals sums the yearly series across every year.
func totals(yearly report.BarData) string {
	var spending, income float64
	if s, ok := yearly.Lookup(report.ExpensesSeries); ok {
		spending = s.Total()
	}
	if s, ok := yearly.Lookup(report.IncomeSeries); ok {
		income = s.Total()
	}
	return cli.FormatTotals("$"+report.FormatAmount(spending), "$"+report.FormatAmount(income))
}

func reportFields(settings *config.ReportSettings, loaded *normalize.Result, result *report.Result) string {
	years := make([]string, len(result.Summary.Years))
	for i, view := range result.Summary.Years {
		years[i] = strconv.Itoa(view.Year)
	}

	fields := []cli.KeyValue{
		{Key: "Transactions", Value: strconv.Itoa(loaded.Table.Len())},
		{Key: "Years", Value: strings.Join(years, ", ")},
		{Key: "Totals", Value: totals(result.Summary.Historical.Yearly)},
		{Key: "Document", Value: result.DocumentPath},
		{Key: "Images", Value: fmt.Sprintf("%d in %s", len(result.ImagePaths), settings.Report.ImageDir)},
	}
	if settings.WorkbookPath != "" {
		fields = append(fields, cli.KeyValue{Key: "Workbook", Value: settings.WorkbookPath})
	}
	if n := len(loaded.Unmapped); n > 0 {
		fields = append(fields, cli.KeyValue{Key: "Unmapped", Value: cli.WarningStyle.Render(strconv.Itoa(n) + " categories")})
	}
	return cli.RenderFields(fields)
}
