// Package normalize turns a raw transaction export into the enriched table the report is built from.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/Veraticus/mintflow/internal/model"
	"github.com/shopspring/decimal"
)

// AmountFormat declares how the Amount column is written.
type AmountFormat string

const (
	// AmountAuto inspects the whole column and treats it as currency strings if any cell
	// contains a currency symbol or thousands separator.
	AmountAuto AmountFormat = "auto"
	// AmountPlain expects plain numbers.
	AmountPlain AmountFormat = "plain"
	// AmountCurrency strips letters, "$" and "," before parsing.
	AmountCurrency AmountFormat = "currency"
)

// ParseAmountFormat validates a configured amount format. Empty means auto.
func ParseAmountFormat(s string) (AmountFormat, error) {
	switch f := AmountFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return AmountAuto, nil
	case AmountAuto, AmountPlain, AmountCurrency:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown amount format %q", common.ErrInvalidConfig, s)
	}
}

// DefaultDateLayouts are tried in order when parsing the Date column.
var DefaultDateLayouts = []string{
	"1/02/2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	time.RFC3339,
}

var requiredColumns = []string{
	model.ColumnDate,
	model.ColumnAmount,
	model.ColumnTransactionType,
	model.ColumnCategory,
}

var currencyChars = regexp.MustCompile(`[a-zA-Z$,]`)

// Options controls parsing of the raw table.
type Options struct {
	AmountFormat AmountFormat
	DateLayouts  []string
}

// UnmappedCategory is a raw category with no entry in the mapping.
type UnmappedCategory struct {
	Category string
	Rows     int
}

// Result is the enriched table plus diagnostics.
type Result struct {
	Table    *model.Table
	Unmapped []UnmappedCategory
}

type columns struct {
	date, description, amount, txType, category, account int
}

// Normalize parses dates and amounts, fixes the sign of debits and attaches the overall
// category of every row. The raw table is not modified.
func Normalize(raw model.RawTable, mapping model.CategoryMapping, opts Options) (*Result, error) {
	for _, name := range requiredColumns {
		if raw.Index(name) < 0 {
			return nil, &common.SchemaError{Column: name}
		}
	}
	cols := columns{
		date:        raw.Index(model.ColumnDate),
		description: raw.Index(model.ColumnDescription),
		amount:      raw.Index(model.ColumnAmount),
		txType:      raw.Index(model.ColumnTransactionType),
		category:    raw.Index(model.ColumnCategory),
		account:     raw.Index(model.ColumnAccountName),
	}

	layouts := opts.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	format := opts.AmountFormat
	if format == "" || format == AmountAuto {
		format = sniffAmountFormat(raw, cols.amount)
	}

	rows := make([]model.Transaction, 0, len(raw.Rows))
	unmapped := make(map[string]int)

	for i := range raw.Rows {
		rowNo := i + 1

		dateText := strings.TrimSpace(raw.Cell(i, cols.date))
		date, err := parseDate(dateText, layouts)
		if err != nil {
			return nil, &common.FormatError{Row: rowNo, Column: model.ColumnDate, Value: dateText, Err: err}
		}

		amountText := raw.Cell(i, cols.amount)
		amount, err := parseAmount(amountText, format)
		if err != nil {
			return nil, &common.FormatError{Row: rowNo, Column: model.ColumnAmount, Value: amountText, Err: err}
		}

		typeText := raw.Cell(i, cols.txType)
		txType, err := model.ParseTransactionType(typeText)
		if err != nil {
			return nil, &common.FormatError{Row: rowNo, Column: model.ColumnTransactionType, Value: typeText, Err: err}
		}
		// The sign comes from the transaction type, whatever the export wrote.
		amount = math.Abs(amount)
		if txType == model.Debit {
			amount = -amount
		}

		category := strings.TrimSpace(raw.Cell(i, cols.category))
		overall, ok := mapping.Lookup(category)
		if !ok {
			unmapped[category]++
		}

		rows = append(rows, model.Transaction{
			Date:            date,
			Year:            date.Year(),
			Month:           int(date.Month()),
			Day:             date.Day(),
			Description:     strings.TrimSpace(raw.Cell(i, cols.description)),
			Amount:          amount,
			Type:            txType,
			Category:        category,
			OverallCategory: overall,
			Mapped:          ok,
			AccountName:     strings.TrimSpace(raw.Cell(i, cols.account)),
		})
	}

	return &Result{
		Table:    model.NewTable(rows),
		Unmapped: sortUnmapped(unmapped),
	}, nil
}

// sniffAmountFormat treats the column as currency strings if any cell has "$" or ",".
func sniffAmountFormat(raw model.RawTable, idx int) AmountFormat {
	for i := range raw.Rows {
		if strings.ContainsAny(raw.Cell(i, idx), "$,") {
			return AmountCurrency
		}
	}
	return AmountPlain
}

func parseAmount(text string, format AmountFormat) (float64, error) {
	if format == AmountCurrency {
		text = currencyChars.ReplaceAllString(text, "")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func parseDate(text string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no matching date layout")
}

func sortUnmapped(counts map[string]int) []UnmappedCategory {
	out := make([]UnmappedCategory, 0, len(counts))
	for category, n := range counts {
		out = append(out, UnmappedCategory{Category: category, Rows: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
