package model

import (
	"slices"
	"sort"
	"strings"
)

// Canonical column names of a raw transaction export.
const (
	ColumnDate            = "Date"
	ColumnDescription     = "Description"
	ColumnAmount          = "Amount"
	ColumnTransactionType = "Transaction Type"
	ColumnCategory        = "Category"
	ColumnAccountName     = "Account Name"
)

// RawColumns is the column order written by the input adapters.
var RawColumns = []string{
	ColumnDate,
	ColumnDescription,
	ColumnAmount,
	ColumnTransactionType,
	ColumnCategory,
	ColumnAccountName,
}

// RawTable is a transaction export before normalization: string cells under named columns.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1.
func (r RawTable) Index(column string) int {
	for i, c := range r.Columns {
		if strings.TrimSpace(c) == column {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i of column idx; short rows read as empty.
func (r RawTable) Cell(i, idx int) string {
	if idx < 0 || idx >= len(r.Rows[i]) {
		return ""
	}
	return r.Rows[i][idx]
}

// Table is an immutable, enriched set of transactions.
// Every method that narrows the table returns a new Table.
type Table struct {
	rows []Transaction
}

// NewTable copies rows into a new Table.
func NewTable(rows []Transaction) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Transaction {
	return slices.Clone(t.rows)
}

// Each calls fn for every row in order.
func (t *Table) Each(fn func(Transaction)) {
	for _, row := range t.rows {
		fn(row)
	}
}

// Filter returns a new Table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(Transaction) bool) *Table {
	out := make([]Transaction, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return &Table{rows: out}
}

// Years returns the distinct years present, in descending order.
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, row := range t.rows {
		if !seen[row.Year] {
			seen[row.Year] = true
			years = append(years, row.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Sum returns the total of all amounts.
func (t *Table) Sum() float64 {
	var total float64
	for _, row := range t.rows {
		total += row.Amount
	}
	return total
}
