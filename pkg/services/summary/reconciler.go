package summary

import (
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/benchmark"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
)

// Reconciler rebuilds a complete summary from a lossy history record without
// re-reading the statement it came from. It never mutates the record.
type Reconciler struct {
	policy policy.Policy
	bench  *benchmark.Evaluator
}

func NewReconciler(p policy.Policy) *Reconciler {
	return &Reconciler{
		policy: p,
		bench:  benchmark.NewEvaluator(p.Benchmark),
	}
}

// reconstructedFields are never persisted, so they are always synthesized.
var reconstructedFields = []domain.Field{
	domain.FieldRevenueGrowth,
	domain.FieldRevenueHistory,
	domain.FieldRevenueForecast,
	domain.FieldExpensesBreakdown,
	domain.FieldHealthScore,
	domain.FieldRiskLevel,
	domain.FieldBenchmarkStatus,
}

func (r *Reconciler) Reconstruct(rec domain.HistoryRecord) (domain.FinancialSummary, error) {
	if err := rec.Validate(); err != nil {
		return domain.FinancialSummary{}, err
	}
	revenue, profit := *rec.Revenue, *rec.Profit
	if revenue.IsNegative() {
		return domain.FinancialSummary{}, fmt.Errorf("%w: record %q has negative revenue %s",
			domain.ErrInvalidInput, rec.ID, revenue)
	}

	est := r.policy.Estimation
	estimated := domain.NewFieldSet(reconstructedFields...)

	// A profit above revenue cannot be split into non-negative expenses.
	expenses := revenue.Sub(profit)
	if expenses.IsNegative() {
		expenses = decimal.Zero
		estimated.Add(domain.FieldExpensesTotal)
	}

	history := PlaceholderHistory(revenue, est.BaselineFactor)

	recs := []domain.RecommendationCode{}
	if rec.Recommendations != nil {
		recs = append(recs, rec.Recommendations...)
	}

	return domain.FinancialSummary{
		Source: domain.SourceHistory,
		Revenue: domain.Revenue{
			Total:         revenue,
			GrowthPercent: decimal.Zero,
			History:       history,
			Forecast:      Forecast(history, revenue, est.FallbackGrowthFactor),
		},
		NetProfit: profit,
		Expenses: domain.Expenses{
			Total:     expenses,
			Breakdown: map[string]decimal.Decimal{est.EstimatedCategory: expenses},
		},
		HealthScore:     r.policy.Health.DefaultScore,
		RiskLevel:       domain.RiskUnknown,
		Benchmark:       r.bench.Evaluate(profit, revenue, true),
		Recommendations: recs,
		TaxCompliance:   rec.TaxCompliance.Clone(),
		EstimatedFields: estimated,
	}, nil
}
