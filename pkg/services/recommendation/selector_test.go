package recommendation

import (
	"testing"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestRules(t *testing.T) {
	p := policy.Default().Recommendation

	tests := []struct {
		name     string
		rule     func(Signals, policy.RecommendationPolicy) bool
		signals  Signals
		expected bool
	}{
		{
			name:     "margin below industry",
			rule:     MarginBelowIndustry,
			signals:  Signals{MarginPercent: dec("14.9")},
			expected: true,
		},
		{
			name:     "margin at industry",
			rule:     MarginBelowIndustry,
			signals:  Signals{MarginPercent: dec("15")},
			expected: false,
		},
		{
			name:     "net loss",
			rule:     NetLoss,
			signals:  Signals{NetProfit: dec("-1")},
			expected: true,
		},
		{
			name:     "break even is not a loss",
			rule:     NetLoss,
			signals:  Signals{NetProfit: dec("0")},
			expected: false,
		},
		{
			name: "low ad spend",
			rule: LowAdSpendRelativeToRevenue,
			signals: Signals{
				Revenue:   dec("100000"),
				Breakdown: map[string]decimal.Decimal{"Marketing": dec("1000")},
			},
			expected: true,
		},
		{
			name: "ad spend matched case-insensitively",
			rule: LowAdSpendRelativeToRevenue,
			signals: Signals{
				Revenue:   dec("100000"),
				Breakdown: map[string]decimal.Decimal{" marketing ": dec("6000")},
			},
			expected: false,
		},
		{
			name: "no marketing category",
			rule: LowAdSpendRelativeToRevenue,
			signals: Signals{
				Revenue:   dec("100000"),
				Breakdown: map[string]decimal.Decimal{"Estimated": dec("80000")},
			},
			expected: false,
		},
		{
			name: "heavy marketing with thin margin",
			rule: MarketingWithoutReturn,
			signals: Signals{
				Revenue:       dec("100000"),
				MarginPercent: dec("5"),
				Breakdown:     map[string]decimal.Decimal{"Marketing": dec("20000")},
			},
			expected: true,
		},
		{
			name: "heavy marketing with healthy margin",
			rule: MarketingWithoutReturn,
			signals: Signals{
				Revenue:       dec("100000"),
				MarginPercent: dec("25"),
				Breakdown:     map[string]decimal.Decimal{"Marketing": dec("20000")},
			},
			expected: false,
		},
		{
			name: "runway under three months from profit",
			rule: CashRunwayBelowMinimum,
			signals: Signals{
				Expenses:  dec("120000"),
				NetProfit: dec("20000"),
			},
			expected: true,
		},
		{
			name: "runway exactly three months",
			rule: CashRunwayBelowMinimum,
			signals: Signals{
				Expenses:  dec("120000"),
				NetProfit: dec("30000"),
			},
			expected: false,
		},
		{
			name: "explicit reserve wins over profit",
			rule: CashRunwayBelowMinimum,
			signals: Signals{
				Expenses:    dec("120000"),
				NetProfit:   dec("0"),
				CashReserve: decPtr("60000"),
			},
			expected: false,
		},
		{
			name:     "no expenses means no runway concern",
			rule:     CashRunwayBelowMinimum,
			signals:  Signals{Expenses: dec("0")},
			expected: false,
		},
		{
			name:     "strong margin",
			rule:     StrongMargin,
			signals:  Signals{MarginPercent: dec("20")},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule(tt.signals, p))
		})
	}
}

func TestSelect_PriorityOrder(t *testing.T) {
	s := NewSelector(policy.Default().Recommendation)

	codes := s.Select(Signals{
		Revenue:       dec("100000"),
		Expenses:      dec("110000"),
		NetProfit:     dec("-10000"),
		MarginPercent: dec("-10"),
		Breakdown:     map[string]decimal.Decimal{"Marketing": dec("2000")},
	})

	assert.Equal(t, []domain.RecommendationCode{
		domain.RecOptimizeCOGSUrgent,
		domain.RecWorkingCapital,
		domain.RecIncreaseMarketing,
		domain.RecCashFlowBuffer,
	}, codes)
}

func TestSelect_EmptyWhenNothingTriggers(t *testing.T) {
	p := policy.Default().Recommendation
	p.StrongMarginPercent = dec("90")
	s := NewSelector(p)

	codes := s.Select(Signals{
		Revenue:       dec("100000"),
		Expenses:      dec("80000"),
		NetProfit:     dec("20000"),
		MarginPercent: dec("20"),
		CashReserve:   decPtr("50000"),
	})

	assert.NotNil(t, codes)
	assert.Empty(t, codes)
}

func TestSelect_SuppressesDuplicates(t *testing.T) {
	always := func(Signals, policy.RecommendationPolicy) bool { return true }
	s := NewSelector(policy.Default().Recommendation,
		Rule{Name: "first", Code: domain.RecCashFlowBuffer, Applies: always},
		Rule{Name: "second", Code: domain.RecCashFlowBuffer, Applies: always},
		Rule{Name: "third", Code: domain.RecWorkingCapital, Applies: always},
	)

	codes := s.Select(Signals{})

	assert.Equal(t, []domain.RecommendationCode{domain.RecCashFlowBuffer, domain.RecWorkingCapital}, codes)
}

func TestSelect_ConfigurableThresholds(t *testing.T) {
	p := policy.Default().Recommendation
	p.MarginAlertPercent = dec("25")
	s := NewSelector(p)

	codes := s.Select(Signals{
		Revenue:       dec("100000"),
		Expenses:      dec("80000"),
		NetProfit:     dec("20000"),
		MarginPercent: dec("20"),
		CashReserve:   decPtr("100000"),
	})

	assert.Equal(t, []domain.RecommendationCode{domain.RecOptimizeCOGSUrgent, domain.RecRenegotiateContracts}, codes)
}
