package recommendation

import (
	"strings"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
)

const marketingCategory = "marketing"

// Signals are the financial inputs the rules look at.
type Signals struct {
	Revenue       decimal.Decimal
	Expenses      decimal.Decimal
	NetProfit     decimal.Decimal
	MarginPercent decimal.Decimal
	Breakdown     map[string]decimal.Decimal
	CashReserve   *decimal.Decimal // defaults to max(NetProfit, 0)
}

// MarketingSpend returns the spend recorded under a "marketing" category, if any.
func (s Signals) MarketingSpend() (decimal.Decimal, bool) {
	for name, amount := range s.Breakdown {
		if strings.EqualFold(strings.TrimSpace(name), marketingCategory) {
			return amount, true
		}
	}
	return decimal.Zero, false
}

func (s Signals) marketingShare() (decimal.Decimal, bool) {
	spend, ok := s.MarketingSpend()
	if !ok || s.Revenue.IsZero() {
		return decimal.Zero, false
	}
	return spend.Div(s.Revenue), true
}

func (s Signals) reserve() decimal.Decimal {
	if s.CashReserve != nil {
		return *s.CashReserve
	}
	return decimal.Max(s.NetProfit, decimal.Zero)
}

// Rule is a single advisory check. Rules are evaluated in slice order, which is the priority order.
type Rule struct {
	Name    string
	Code    domain.RecommendationCode
	Applies func(s Signals, p policy.RecommendationPolicy) bool
}

func DefaultRules() []Rule {
	return []Rule{
		{Name: "marginBelowIndustry", Code: domain.RecOptimizeCOGSUrgent, Applies: MarginBelowIndustry},
		{Name: "netLoss", Code: domain.RecWorkingCapital, Applies: NetLoss},
		{Name: "lowAdSpendRelativeToRevenue", Code: domain.RecIncreaseMarketing, Applies: LowAdSpendRelativeToRevenue},
		{Name: "marketingWithoutReturn", Code: domain.RecIncreaseMarketingROI, Applies: MarketingWithoutReturn},
		{Name: "cashRunwayBelowThreeMonths", Code: domain.RecCashFlowBuffer, Applies: CashRunwayBelowMinimum},
		{Name: "strongMargin", Code: domain.RecRenegotiateContracts, Applies: StrongMargin},
	}
}

func MarginBelowIndustry(s Signals, p policy.RecommendationPolicy) bool {
	return s.MarginPercent.LessThan(p.MarginAlertPercent)
}

func NetLoss(s Signals, _ policy.RecommendationPolicy) bool {
	return s.NetProfit.IsNegative()
}

func LowAdSpendRelativeToRevenue(s Signals, p policy.RecommendationPolicy) bool {
	share, ok := s.marketingShare()
	return ok && share.LessThan(p.MinMarketingShare)
}

func MarketingWithoutReturn(s Signals, p policy.RecommendationPolicy) bool {
	share, ok := s.marketingShare()
	return ok && share.GreaterThanOrEqual(p.MaxMarketingShare) && s.MarginPercent.LessThan(p.MarginAlertPercent)
}

// CashRunwayBelowMinimum compares months of expenses covered by the reserve against the minimum.
func CashRunwayBelowMinimum(s Signals, p policy.RecommendationPolicy) bool {
	if !s.Expenses.IsPositive() || p.PeriodMonths <= 0 {
		return false
	}
	// reserve / (expenses / period) < min
	covered := s.reserve().Mul(decimal.NewFromInt(int64(p.PeriodMonths)))
	return covered.LessThan(s.Expenses.Mul(p.MinRunwayMonths))
}

func StrongMargin(s Signals, p policy.RecommendationPolicy) bool {
	return s.MarginPercent.GreaterThanOrEqual(p.StrongMarginPercent)
}

type Selector struct {
	policy policy.RecommendationPolicy
	rules  []Rule
}

// NewSelector builds a selector over the given rules, or DefaultRules when none are passed.
func NewSelector(p policy.RecommendationPolicy, rules ...Rule) *Selector {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Selector{policy: p, rules: rules}
}

// Select returns the codes of the triggered rules in priority order, without duplicates.
// The result is never nil.
func (s *Selector) Select(sig Signals) []domain.RecommendationCode {
	codes := []domain.RecommendationCode{}
	seen := make(map[domain.RecommendationCode]struct{}, len(s.rules))

	for _, r := range s.rules {
		if !r.Applies(sig, s.policy) {
			continue
		}
		if _, dup := seen[r.Code]; dup {
			continue
		}
		seen[r.Code] = struct{}{}
		codes = append(codes, r.Code)
	}
	return codes
}
