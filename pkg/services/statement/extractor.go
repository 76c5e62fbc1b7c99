package statement

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

type Layout string

const (
	// LayoutLong has one transaction per row with type and amount columns.
	LayoutLong Layout = "long"
	// LayoutWide has one period per row with revenue and expenses columns.
	LayoutWide Layout = "wide"
)

var (
	revenueTypes = map[string]struct{}{"income": {}, "revenue": {}, "sales": {}}
	expenseTypes = map[string]struct{}{"expense": {}, "cost": {}, "expenditure": {}}
)

// Statement holds the figures extracted from an uploaded file.
type Statement struct {
	Filename  string
	Format    Format
	Layout    Layout
	Rows      int
	Skipped   int
	Columns   []string
	Revenue   decimal.Decimal
	Expenses  decimal.Decimal
	Breakdown map[string]decimal.Decimal // nil when the file has no category column
	History   []decimal.Decimal          // nil when the file has no month column
}

func (s Statement) NetProfit() decimal.Decimal {
	return s.Revenue.Sub(s.Expenses)
}

// BuildInput converts the statement into summary builder input.
func (s Statement) BuildInput(asOf time.Time) domain.BuildInput {
	return domain.BuildInput{
		RevenueTotal:     s.Revenue,
		ExpensesTotal:    s.Expenses,
		NetProfit:        s.NetProfit(),
		ExpenseBreakdown: s.Breakdown,
		RevenueHistory:   s.History,
		AsOf:             asOf,
	}
}

type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (Statement, error)
}

type tabularExtractor struct{}

func NewExtractor() Extractor {
	return &tabularExtractor{}
}

// FormatOf detects the statement format from the file extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q is not a csv, xlsx or xls file", domain.ErrUnsupportedStatement, filename)
	}
}

func (e *tabularExtractor) Extract(ctx context.Context, filename string, data []byte) (Statement, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return Statement{}, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = parseCSV(data)
	case FormatXLSX:
		rows, err = parseXLSX(data)
	case FormatXLS:
		rows, err = parseXLS(data)
	}
	if err != nil {
		return Statement{}, fmt.Errorf("%w: failed to read %s: %v", domain.ErrInvalidInput, filename, err)
	}

	s, err := summarize(rows)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: %w", filename, err)
	}
	s.Filename = filename
	s.Format = format

	if s.Skipped > 0 {
		zerolog.Ctx(ctx).Warn().
			Str("filename", filename).
			Int("skipped", s.Skipped).
			Msg("Skipped statement rows with unreadable amounts")
	}
	return s, nil
}

func summarize(rows [][]string) (Statement, error) {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) < 2 {
		return Statement{}, fmt.Errorf("%w: statement has no data rows", domain.ErrInvalidInput)
	}

	header := make(map[string]int, len(rows[0]))
	columns := make([]string, 0, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		columns = append(columns, name)
		if _, dup := header[name]; !dup && name != "" {
			header[name] = i
		}
	}
	col := func(name string) int {
		if idx, ok := header[name]; ok {
			return idx
		}
		return -1
	}

	s := Statement{Columns: columns, Revenue: decimal.Zero, Expenses: decimal.Zero}
	data := rows[1:]

	switch {
	case col("type") >= 0 && col("amount") >= 0:
		s.Layout = LayoutLong
		summarizeLong(&s, data, col("type"), col("amount"), col("category"))
	case col("revenue") >= 0 || col("expenses") >= 0:
		s.Layout = LayoutWide
		summarizeWide(&s, data, col("revenue"), col("expenses"), col("month"))
	default:
		return Statement{}, fmt.Errorf("%w: expected type/amount or revenue/expenses columns", domain.ErrUnsupportedStatement)
	}
	return s, nil
}

func summarizeLong(s *Statement, rows [][]string, typeIdx, amountIdx, categoryIdx int) {
	if categoryIdx >= 0 {
		s.Breakdown = map[string]decimal.Decimal{}
	}
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		s.Rows++
		amount, ok := parseAmount(cell(row, amountIdx))
		if !ok {
			s.Skipped++
			continue
		}

		kind := strings.ToLower(cell(row, typeIdx))
		if _, ok := revenueTypes[kind]; ok {
			s.Revenue = s.Revenue.Add(amount)
			continue
		}
		if _, ok := expenseTypes[kind]; !ok {
			continue
		}
		s.Expenses = s.Expenses.Add(amount)
		if s.Breakdown != nil {
			category := cell(row, categoryIdx)
			if category == "" {
				category = "Other"
			}
			s.Breakdown[category] = s.Breakdown[category].Add(amount)
		}
	}
	if len(s.Breakdown) == 0 {
		s.Breakdown = nil
	}
}

func summarizeWide(s *Statement, rows [][]string, revenueIdx, expensesIdx, monthIdx int) {
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		s.Rows++
		if revenueIdx >= 0 {
			if amount, ok := parseAmount(cell(row, revenueIdx)); ok {
				s.Revenue = s.Revenue.Add(amount)
				if monthIdx >= 0 {
					s.History = append(s.History, amount)
				}
			} else {
				s.Skipped++
			}
		}
		if expensesIdx >= 0 {
			if amount, ok := parseAmount(cell(row, expensesIdx)); ok {
				s.Expenses = s.Expenses.Add(amount)
			} else {
				s.Skipped++
			}
		}
	}
}
