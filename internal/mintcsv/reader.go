// Package mintcsv reads Mint-style CSV transaction exports into a raw table.
package mintcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/mintflow/internal/model"
)

// ReadFile opens path and reads it as a CSV export.
func ReadFile(path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to open CSV export: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses a CSV export whose first record is the header row.
// Columns are kept in file order; column presence is checked by the normalizer.
func Read(r io.Reader) (model.RawTable, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return model.RawTable{}, fmt.Errorf("CSV export is empty")
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := model.RawTable{Columns: make([]string, len(header))}
	for i, name := range header {
		table.Columns[i] = strings.TrimSpace(name)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RawTable{}, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	slog.Debug("Read CSV export",
		"columns", len(table.Columns),
		"rows", len(table.Rows))

	return table, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
