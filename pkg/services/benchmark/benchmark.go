package benchmark

import (
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Evaluator struct {
	policy policy.BenchmarkPolicy
}

func NewEvaluator(p policy.BenchmarkPolicy) *Evaluator {
	return &Evaluator{policy: p}
}

// Margin returns net profit as a percentage of revenue, or zero when revenue is zero.
func Margin(netProfit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return netProfit.Div(revenue).Mul(hundred)
}

// Evaluate classifies the margin against the industry reference. The status is Unknown
// when revenue is zero or when the inputs were themselves estimated.
func (e *Evaluator) Evaluate(netProfit, revenue decimal.Decimal, inputsEstimated bool) domain.Benchmark {
	b := domain.Benchmark{
		YourMargin:     Margin(netProfit, revenue),
		IndustryMargin: e.policy.IndustryMargin,
		Status:         domain.BenchmarkUnknown,
	}
	if revenue.IsZero() || inputsEstimated {
		return b
	}

	if b.YourMargin.GreaterThan(b.IndustryMargin) {
		b.Status = domain.BenchmarkAboveAverage
	} else {
		b.Status = domain.BenchmarkBelowAverage
	}
	return b
}
