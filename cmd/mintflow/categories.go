package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Veraticus/mintflow/internal/cli"
	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/config"
	"github.com/Veraticus/mintflow/internal/mapping"
	"github.com/Veraticus/mintflow/internal/normalize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect transaction categories",
		Long:  `Check how the categories of a transaction export line up with the category mapping file.`,
	}

	cmd.AddCommand(unmappedCategoriesCmd())

	return cmd
}

func unmappedCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmapped",
		Short: "List categories missing from the mapping file",
		Long: `List every category in the input that has no entry in the category mapping file,
with the number of rows using it. These rows are reported under "Unmapped".`,
		Args: cobra.NoArgs,
		RunE: runUnmappedCategories,
	}

	cmd.Flags().StringP("input", "i", "", "transaction export (.csv, .ofx, .qfx, .db, .sqlite)")
	cmd.Flags().StringP("mapping", "m", mapping.DefaultPath, "category mapping file")
	cmd.Flags().String("amount-format", string(normalize.AmountAuto), "amount column format (auto, plain, currency)")

	return cmd
}

func runUnmappedCategories(cmd *cobra.Command, _ []string) error {
	if err := bindReportFlags(cmd); err != nil {
		return err
	}

	settings, err := config.LoadReportSettings(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid configuration", err)
	}

	loaded, err := loadTransactions(cmd.Context(), settings, slog.Default())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(loaded.Unmapped) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess("Every category in "+settings.InputPath+" is mapped."))
		return nil
	}

	rows := make([][]string, len(loaded.Unmapped))
	for i, u := range loaded.Unmapped {
		rows[i] = []string{u.Category, strconv.Itoa(u.Rows)}
	}

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d unmapped categories", len(loaded.Unmapped))))
	fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Rows"}, rows))
	fmt.Fprintln(out, cli.FormatInfo("Add \"category: overall category\" lines to "+settings.MappingPath))
	return nil
}
