package summary

import (
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	weightLatest   = decimal.RequireFromString("0.5")
	weightPrevious = decimal.RequireFromString("0.3")
	weightOldest   = decimal.RequireFromString("0.2")
	trendDamping   = decimal.RequireFromString("0.5")
)

// PlaceholderHistory is the two-point series used when no time series exists:
// an assumed prior period at baseline × revenue, then revenue itself.
func PlaceholderHistory(revenue, baseline decimal.Decimal) []decimal.Decimal {
	return []decimal.Decimal{revenue.Mul(baseline), revenue}
}

// Growth is the last period-over-period change in percent.
func Growth(history []decimal.Decimal) decimal.Decimal {
	n := len(history)
	if n < 2 || history[n-2].IsZero() {
		return decimal.Zero
	}
	return history[n-1].Sub(history[n-2]).Div(history[n-2]).Mul(hundred)
}

// Forecast projects the next period. With three or more points it uses a weighted average
// of the latest periods plus half of the latest trend; otherwise revenue × fallback.
func Forecast(history []decimal.Decimal, revenue, fallback decimal.Decimal) decimal.Decimal {
	n := len(history)
	if n < 3 {
		return revenue.Mul(fallback)
	}
	latest, previous, oldest := history[n-1], history[n-2], history[n-3]
	weighted := latest.Mul(weightLatest).Add(previous.Mul(weightPrevious)).Add(oldest.Mul(weightOldest))
	return weighted.Add(latest.Sub(previous).Mul(trendDamping))
}

// RiskFromScore buckets a health score into a risk level.
func RiskFromScore(score int, p policy.HealthPolicy) domain.RiskLevel {
	switch {
	case score > p.LowRiskAbove:
		return domain.RiskLow
	case score > p.MediumRiskAbove:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func atLeastMedium(r domain.RiskLevel) domain.RiskLevel {
	if r == domain.RiskLow {
		return domain.RiskMedium
	}
	return r
}

func cloneAmounts(in []decimal.Decimal) []decimal.Decimal {
	if len(in) == 0 {
		return nil
	}
	out := make([]decimal.Decimal, len(in))
	copy(out, in)
	return out
}

func cloneBreakdown(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
