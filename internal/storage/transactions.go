package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/Veraticus/mintflow/internal/model"
)

const selectTransactions = `
	SELECT date, description, amount, transaction_type, category, account_name
	FROM transactions
	ORDER BY date, id
`

// LoadRawTable reads every row of the transactions table as raw export cells.
// Values are read as text so the normalizer sees them exactly as stored.
func (s *SQLiteStorage) LoadRawTable(ctx context.Context) (model.RawTable, error) {
	if ctx == nil {
		return model.RawTable{}, ErrNilContext
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'transactions'`).Scan(&name)
	if err == sql.ErrNoRows {
		return model.RawTable{}, ErrMissingTable
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to inspect schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, selectTransactions)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := model.RawTable{Columns: slices.Clone(model.RawColumns)}
	for rows.Next() {
		var date, description, amount, txType, category, account sql.NullString
		if err := rows.Scan(&date, &description, &amount, &txType, &category, &account); err != nil {
			return model.RawTable{}, fmt.Errorf("failed to scan transaction: %w", err)
		}
		table.Rows = append(table.Rows, []string{
			date.String,
			description.String,
			amount.String,
			txType.String,
			category.String,
			account.String,
		})
	}
	if err := rows.Err(); err != nil {
		return model.RawTable{}, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return table, nil
}
