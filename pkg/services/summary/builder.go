package summary

import (
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/benchmark"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/ledgercheck/finhealth/pkg/services/recommendation"
	"github.com/ledgercheck/finhealth/pkg/services/tax"
	"github.com/shopspring/decimal"
)

// Builder composes a canonical FinancialSummary from primitive figures.
type Builder struct {
	policy   policy.Policy
	ledger   *tax.Calculator
	bench    *benchmark.Evaluator
	selector *recommendation.Selector
}

func NewBuilder(p policy.Policy) *Builder {
	return &Builder{
		policy:   p,
		ledger:   tax.NewCalculator(p.Tax),
		bench:    benchmark.NewEvaluator(p.Benchmark),
		selector: recommendation.NewSelector(p.Recommendation),
	}
}

// Build assembles a summary from the entered totals, filling in and marking as estimated whatever
// was left out. The ledger deadlines depend on in.AsOf, so a zero AsOf is an input error; callers
// without a reporting date pass the current day. Any other non-negative input succeeds.
func (b *Builder) Build(in domain.BuildInput) (domain.FinancialSummary, error) {
	if err := validateBuildInput(in); err != nil {
		return domain.FinancialSummary{}, err
	}

	estimated := domain.NewFieldSet()
	est := b.policy.Estimation

	breakdown := cloneBreakdown(in.ExpenseBreakdown)
	if breakdown == nil {
		breakdown = map[string]decimal.Decimal{est.EstimatedCategory: in.ExpensesTotal}
		estimated.Add(domain.FieldExpensesBreakdown)
	}

	history := cloneAmounts(in.RevenueHistory)
	if history == nil {
		history = PlaceholderHistory(in.RevenueTotal, est.BaselineFactor)
		estimated.Add(domain.FieldRevenueHistory)
		estimated.Add(domain.FieldRevenueGrowth)
		estimated.Add(domain.FieldRevenueForecast)
	}

	score := b.policy.Health.DefaultScore
	if in.HealthScore != nil {
		score = *in.HealthScore
	} else {
		estimated.Add(domain.FieldHealthScore)
		estimated.Add(domain.FieldRiskLevel)
	}
	risk := RiskFromScore(score, b.policy.Health)
	if in.RevenueTotal.IsZero() {
		risk = atLeastMedium(risk)
	}

	ledger, err := b.ledger.ComputeLedger(in.RevenueTotal, in.ExpensesTotal, in.AsOf)
	if err != nil {
		return domain.FinancialSummary{}, err
	}

	bench := b.bench.Evaluate(in.NetProfit, in.RevenueTotal, false)
	recs := b.selector.Select(recommendation.Signals{
		Revenue:       in.RevenueTotal,
		Expenses:      in.ExpensesTotal,
		NetProfit:     in.NetProfit,
		MarginPercent: bench.YourMargin,
		Breakdown:     breakdown,
		CashReserve:   in.CashReserve,
	})

	return domain.FinancialSummary{
		Source: domain.SourceAnalysis,
		Revenue: domain.Revenue{
			Total:         in.RevenueTotal,
			GrowthPercent: Growth(history),
			History:       history,
			Forecast:      Forecast(history, in.RevenueTotal, est.FallbackGrowthFactor),
		},
		NetProfit: in.NetProfit,
		Expenses: domain.Expenses{
			Total:     in.ExpensesTotal,
			Breakdown: breakdown,
		},
		HealthScore:     score,
		RiskLevel:       risk,
		Benchmark:       bench,
		Recommendations: recs,
		TaxCompliance:   &ledger,
		EstimatedFields: estimated,
	}, nil
}

func validateBuildInput(in domain.BuildInput) error {
	if in.RevenueTotal.IsNegative() {
		return fmt.Errorf("%w: revenue must be non-negative, got %s", domain.ErrInvalidInput, in.RevenueTotal)
	}
	if in.ExpensesTotal.IsNegative() {
		return fmt.Errorf("%w: expenses must be non-negative, got %s", domain.ErrInvalidInput, in.ExpensesTotal)
	}
	for category, amount := range in.ExpenseBreakdown {
		if amount.IsNegative() {
			return fmt.Errorf("%w: expense category %q is negative", domain.ErrInvalidInput, category)
		}
	}
	for i, amount := range in.RevenueHistory {
		if amount.IsNegative() {
			return fmt.Errorf("%w: revenue history point %d is negative", domain.ErrInvalidInput, i)
		}
	}
	if in.HealthScore != nil && (*in.HealthScore < 0 || *in.HealthScore > 100) {
		return fmt.Errorf("%w: health score %d is outside 0..100", domain.ErrInvalidInput, *in.HealthScore)
	}
	return nil
}
