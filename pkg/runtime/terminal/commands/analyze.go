package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/ledgercheck/finhealth/pkg/services/analysis"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	env *Env

	file        string
	revenue     string
	expenses    string
	profit      string
	cashReserve string
	breakdown   map[string]string
	history     []string
	healthScore int
	asOf        string
	currency    string
	lang        string
}

func NewAnalyzeCmd(env *Env) *cobra.Command {
	ac := &AnalyzeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build a financial summary from figures or a statement file and record it in history",
		Example: `  finhealth analyze --revenue 100000 --expenses 80000
  finhealth analyze --revenue 100000 --expenses 80000 --breakdown marketing=2000,rent=30000 --history 90000,95000,100000
  finhealth analyze --file july.xlsx --currency USD --lang hi`,
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.file, "file", "", "Statement to analyze (.csv, .xlsx or .xls)")
	cmd.Flags().StringVar(&ac.revenue, "revenue", "", "Total revenue for the period")
	cmd.Flags().StringVar(&ac.expenses, "expenses", "", "Total expenses for the period")
	cmd.Flags().StringVar(&ac.profit, "profit", "", "Net profit (default revenue - expenses)")
	cmd.Flags().StringVar(&ac.cashReserve, "cash-reserve", "", "Cash on hand (default max(profit, 0))")
	cmd.Flags().StringToStringVar(&ac.breakdown, "breakdown", nil, "Expense breakdown as category=amount pairs")
	cmd.Flags().StringSliceVar(&ac.history, "history", nil, "Monthly revenue history, oldest first")
	cmd.Flags().IntVar(&ac.healthScore, "health-score", 0, "Explicit health score 0-100 (default policy score)")
	cmd.Flags().StringVar(&ac.asOf, "as-of", "", "Reporting date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&ac.currency, "currency", "", "Display currency (USD, INR, EUR, GBP)")
	cmd.Flags().StringVar(&ac.lang, "lang", "", "Language for recommendation text")

	cmd.MarkFlagsMutuallyExclusive("file", "revenue")
	cmd.MarkFlagsMutuallyExclusive("file", "expenses")
	cmd.MarkFlagsRequiredTogether("revenue", "expenses")
	cmd.MarkFlagsOneRequired("file", "revenue")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	asOf, err := parseDate(ac.asOf)
	if err != nil {
		return err
	}

	var in domain.BuildInput
	var data []byte
	if ac.file != "" {
		data, err = os.ReadFile(ac.file)
		if err != nil {
			return fmt.Errorf("failed to read statement: %w", err)
		}
	} else {
		in, err = ac.buildInput(cmd)
		if err != nil {
			return err
		}
		in.AsOf = asOf
	}

	app, err := ac.env.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var result *analysis.Result
	if ac.file != "" {
		result, err = app.Analysis.AnalyzeStatement(ctx, filepath.Base(ac.file), data, asOf)
	} else {
		result, err = app.Analysis.AnalyzeManual(ctx, in)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	display, err := app.Facade.Present(result.Summary, ac.currency, ac.lang)
	if err != nil {
		return err
	}

	payload := api.AnalysisResponse{
		Status:           "success",
		Method:           result.Method,
		RecordID:         result.Record.ID,
		FinancialSummary: adapters.MapSummaryDomainToApi(result.Summary),
	}
	payload.FinancialSummary.Display = adapters.MapDisplayToApi(display)
	if result.Statement != nil {
		payload.Filename = result.Statement.Filename
		payload.RowsProcessed = result.Statement.Rows
		payload.Columns = result.Statement.Columns
	}

	title := fmt.Sprintf("Financial summary %s (%s)", result.Record.ID, result.Record.Filename)
	return ac.env.render(export.SummaryReport(title, result.Summary, display), payload)
}

func (ac *AnalyzeCmd) buildInput(cmd *cobra.Command) (domain.BuildInput, error) {
	var in domain.BuildInput
	var err error

	if in.RevenueTotal, err = parseAmount("revenue", ac.revenue); err != nil {
		return in, err
	}
	if in.ExpensesTotal, err = parseAmount("expenses", ac.expenses); err != nil {
		return in, err
	}
	in.NetProfit = in.RevenueTotal.Sub(in.ExpensesTotal)
	if ac.profit != "" {
		if in.NetProfit, err = parseAmount("profit", ac.profit); err != nil {
			return in, err
		}
	}
	if ac.cashReserve != "" {
		reserve, err := parseAmount("cash-reserve", ac.cashReserve)
		if err != nil {
			return in, err
		}
		in.CashReserve = &reserve
	}
	if len(ac.breakdown) > 0 {
		in.ExpenseBreakdown = make(map[string]decimal.Decimal, len(ac.breakdown))
		for category, raw := range ac.breakdown {
			amount, err := parseAmount("breakdown", raw)
			if err != nil {
				return in, err
			}
			in.ExpenseBreakdown[category] = amount
		}
	}
	for _, raw := range ac.history {
		amount, err := parseAmount("history", raw)
		if err != nil {
			return in, err
		}
		in.RevenueHistory = append(in.RevenueHistory, amount)
	}
	if cmd.Flags().Changed("health-score") {
		score := ac.healthScore
		in.HealthScore = &score
	}
	return in, nil
}
