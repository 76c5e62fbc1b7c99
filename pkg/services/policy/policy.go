package policy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy groups every tunable constant used by the summary engine.
type Policy struct {
	Tax            TaxPolicy            `mapstructure:"tax"`
	Benchmark      BenchmarkPolicy      `mapstructure:"benchmark"`
	Recommendation RecommendationPolicy `mapstructure:"recommendation"`
	Health         HealthPolicy         `mapstructure:"health"`
	Estimation     EstimationPolicy     `mapstructure:"estimation"`
}

// TaxPolicy contains the GST ledger rates and thresholds
type TaxPolicy struct {
	// OutputRate is the GST rate applied to revenue (default: 0.18)
	OutputRate decimal.Decimal `mapstructure:"output_rate"`
	// InputCreditRate is the credit rate applied to expenses (default: 0.18)
	InputCreditRate decimal.Decimal `mapstructure:"input_credit_rate"`
	// AttentionThreshold is the share of output liability the net payable may reach before
	// the ledger needs attention (default: 0.5)
	AttentionThreshold decimal.Decimal `mapstructure:"attention_threshold"`
	// GSTR1DueDay is the day of the following month GSTR-1 is due (default: 11)
	GSTR1DueDay int `mapstructure:"gstr1_due_day"`
	// GSTR3BDueDay is the day of the following month GSTR-3B is due (default: 20)
	GSTR3BDueDay int `mapstructure:"gstr3b_due_day"`
	// Places is the rounding precision of ledger amounts (default: 2)
	Places  int32  `mapstructure:"places"`
	Insight string `mapstructure:"insight"`
}

type BenchmarkPolicy struct {
	// IndustryMargin is the reference profit margin in percent (default: 15)
	IndustryMargin decimal.Decimal `mapstructure:"industry_margin"`
}

// RecommendationPolicy holds the rule thresholds of the recommendation selector
type RecommendationPolicy struct {
	// MarginAlertPercent flags margins below it as needing cost review (default: 15)
	MarginAlertPercent decimal.Decimal `mapstructure:"margin_alert_percent"`
	// StrongMarginPercent marks margins at or above it as strong (default: 20)
	StrongMarginPercent decimal.Decimal `mapstructure:"strong_margin_percent"`
	// MinMarketingShare is the marketing spend share of revenue below which more ads are advised (default: 0.05)
	MinMarketingShare decimal.Decimal `mapstructure:"min_marketing_share"`
	// MaxMarketingShare is the share above which spend without margin is questioned (default: 0.15)
	MaxMarketingShare decimal.Decimal `mapstructure:"max_marketing_share"`
	// MinRunwayMonths is the cash runway below which a buffer is advised (default: 3)
	MinRunwayMonths decimal.Decimal `mapstructure:"min_runway_months"`
	// PeriodMonths is the number of months the statement totals cover (default: 12)
	PeriodMonths int `mapstructure:"period_months"`
}

type HealthPolicy struct {
	// DefaultScore is the neutral prior used without an explicit scoring input (default: 75)
	DefaultScore int `mapstructure:"default_score"`
	// LowRiskAbove is the score above which risk is Low (default: 70)
	LowRiskAbove int `mapstructure:"low_risk_above"`
	// MediumRiskAbove is the score above which risk is Medium (default: 40)
	MediumRiskAbove int `mapstructure:"medium_risk_above"`
}

type EstimationPolicy struct {
	// BaselineFactor scales revenue into the assumed prior period (default: 0.9)
	BaselineFactor decimal.Decimal `mapstructure:"baseline_factor"`
	// FallbackGrowthFactor projects revenue when history is too short (default: 1.05)
	FallbackGrowthFactor decimal.Decimal `mapstructure:"fallback_growth_factor"`
	// EstimatedCategory names the single synthesized expense category (default: "Estimated")
	EstimatedCategory string `mapstructure:"estimated_category"`
}

// Default returns the stock policy
func Default() Policy {
	return Policy{
		Tax: TaxPolicy{
			OutputRate:         decimal.RequireFromString("0.18"),
			InputCreditRate:    decimal.RequireFromString("0.18"),
			AttentionThreshold: decimal.RequireFromString("0.5"),
			GSTR1DueDay:        11,
			GSTR3BDueDay:       20,
			Places:             2,
			Insight:            "Tip: Increase Vendor Compliance to claim 100% ITC on COGS.",
		},
		Benchmark: BenchmarkPolicy{
			IndustryMargin: decimal.NewFromInt(15),
		},
		Recommendation: RecommendationPolicy{
			MarginAlertPercent:  decimal.NewFromInt(15),
			StrongMarginPercent: decimal.NewFromInt(20),
			MinMarketingShare:   decimal.RequireFromString("0.05"),
			MaxMarketingShare:   decimal.RequireFromString("0.15"),
			MinRunwayMonths:     decimal.NewFromInt(3),
			PeriodMonths:        12,
		},
		Health: HealthPolicy{
			DefaultScore:    75,
			LowRiskAbove:    70,
			MediumRiskAbove: 40,
		},
		Estimation: EstimationPolicy{
			BaselineFactor:       decimal.RequireFromString("0.9"),
			FallbackGrowthFactor: decimal.RequireFromString("1.05"),
			EstimatedCategory:    "Estimated",
		},
	}
}

// Validate rejects policies that would make the engine produce nonsense.
func (p Policy) Validate() error {
	if p.Tax.OutputRate.IsNegative() || p.Tax.InputCreditRate.IsNegative() {
		return fmt.Errorf("tax rates must be non-negative")
	}
	if p.Tax.AttentionThreshold.IsNegative() {
		return fmt.Errorf("tax attention threshold must be non-negative")
	}
	if !validDueDay(p.Tax.GSTR1DueDay) || !validDueDay(p.Tax.GSTR3BDueDay) {
		return fmt.Errorf("filing due days must be within 1..28, got %d and %d",
			p.Tax.GSTR1DueDay, p.Tax.GSTR3BDueDay)
	}
	if p.Tax.Places < 0 {
		return fmt.Errorf("tax rounding places must be non-negative")
	}
	if p.Recommendation.PeriodMonths <= 0 {
		return fmt.Errorf("recommendation period months must be positive")
	}
	if p.Health.DefaultScore < 0 || p.Health.DefaultScore > 100 {
		return fmt.Errorf("default health score %d is outside 0..100", p.Health.DefaultScore)
	}
	if p.Health.MediumRiskAbove > p.Health.LowRiskAbove {
		return fmt.Errorf("medium risk threshold %d exceeds low risk threshold %d",
			p.Health.MediumRiskAbove, p.Health.LowRiskAbove)
	}
	if p.Estimation.EstimatedCategory == "" {
		return fmt.Errorf("estimated expense category must not be empty")
	}
	return nil
}

// Due days stay below 29 so every month has them.
func validDueDay(day int) bool {
	return day >= 1 && day <= 28
}
