package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/config"
	"github.com/Veraticus/mintflow/internal/mapping"
	"github.com/Veraticus/mintflow/internal/mintcsv"
	"github.com/Veraticus/mintflow/internal/model"
	"github.com/Veraticus/mintflow/internal/normalize"
	"github.com/Veraticus/mintflow/internal/ofx"
	"github.com/Veraticus/mintflow/internal/storage"
)

// readRawTable loads the input file with the adapter for its format.
func readRawTable(ctx context.Context, settings *config.ReportSettings, logger *slog.Logger) (model.RawTable, error) {
	switch settings.InputFormat {
	case config.InputCSV:
		return mintcsv.ReadFile(settings.InputPath)
	case config.InputOFX:
		return ofx.NewParser(logger).ParseFile(ctx, settings.InputPath)
	case config.InputSQLite:
		store, err := storage.Open(settings.InputPath)
		if err != nil {
			return model.RawTable{}, err
		}
		defer func() { _ = store.Close() }()
		return store.LoadRawTable(ctx)
	default:
		return model.RawTable{}, fmt.Errorf("%w: unsupported input format %q", common.ErrInvalidConfig, settings.InputFormat)
	}
}

// loadTransactions reads the input and mapping files and normalizes them.
func loadTransactions(ctx context.Context, settings *config.ReportSettings, logger *slog.Logger) (*normalize.Result, error) {
	raw, err := readRawTable(ctx, settings, logger)
	if err != nil {
		return nil, common.NewUserError("Could not read "+settings.InputPath, err)
	}
	logger.Info("Loaded transactions",
		"input", settings.InputPath,
		"format", settings.InputFormat,
		"rows", len(raw.Rows))

	categories, err := mapping.LoadFile(settings.MappingPath)
	if err != nil {
		return nil, common.NewUserError("Could not load category mapping "+settings.MappingPath, err)
	}
	logger.Debug("Loaded category mapping",
		"path", settings.MappingPath,
		"entries", categories.Len())

	result, err := normalize.Normalize(raw, categories, normalize.Options{AmountFormat: settings.AmountFormat})
	if err != nil {
		return nil, common.NewUserError("Could not normalize "+settings.InputPath, err)
	}
	return result, nil
}
