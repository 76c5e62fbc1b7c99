package tax

import (
	"fmt"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Calculator computes the GST liability ledger. It holds no state besides its policy
// and is safe for concurrent use.
type Calculator struct {
	policy policy.TaxPolicy
}

func NewCalculator(p policy.TaxPolicy) *Calculator {
	return &Calculator{policy: p}
}

// ComputeLedger derives output liability, input tax credit, net payable and the filing
// deadlines for the reporting period containing asOf. A zero asOf is rejected since the
// deadlines cannot be placed without it.
func (c *Calculator) ComputeLedger(revenue, expenses decimal.Decimal, asOf time.Time) (domain.TaxLedger, error) {
	if revenue.IsNegative() || expenses.IsNegative() {
		return domain.TaxLedger{}, fmt.Errorf("%w: ledger inputs must be non-negative (revenue %s, expenses %s)",
			domain.ErrInvalidInput, revenue, expenses)
	}
	if asOf.IsZero() {
		return domain.TaxLedger{}, fmt.Errorf("%w: ledger needs an as-of reporting date", domain.ErrInvalidInput)
	}

	outputTotal, outputCGST, outputSGST := c.split(revenue.Mul(c.policy.OutputRate))
	itcTotal, itcCGST, itcSGST := c.split(expenses.Mul(c.policy.InputCreditRate))
	netPayable := outputTotal.Sub(itcTotal)

	return domain.TaxLedger{
		Status: c.status(netPayable, outputTotal),
		Breakdown: domain.TaxBreakdown{
			OutputTotal: outputTotal,
			OutputCGST:  outputCGST,
			OutputSGST:  outputSGST,
			ITCTotal:    itcTotal,
			ITCCGST:     itcCGST,
			ITCSGST:     itcSGST,
			NetPayable:  netPayable,
		},
		Deadlines: Deadlines(asOf, c.policy.GSTR1DueDay, c.policy.GSTR3BDueDay),
		Insight:   c.policy.Insight,
	}, nil
}

// split rounds the total and halves it into central and state parts. The state half
// absorbs the rounding remainder so the parts always add up to the total.
func (c *Calculator) split(amount decimal.Decimal) (total, central, state decimal.Decimal) {
	total = amount.Round(c.policy.Places)
	central = total.DivRound(two, c.policy.Places)
	state = total.Sub(central)
	return total, central, state
}

func (c *Calculator) status(netPayable, outputTotal decimal.Decimal) domain.TaxStatus {
	if netPayable.LessThanOrEqual(outputTotal.Mul(c.policy.AttentionThreshold)) {
		return domain.TaxStatusGood
	}
	return domain.TaxStatusAttention
}

// Deadlines returns the filing due dates in the month after the reporting period of asOf.
func Deadlines(asOf time.Time, gstr1Day, gstr3bDay int) map[domain.FilingType]time.Time {
	year, month, _ := asOf.Date()
	return map[domain.FilingType]time.Time{
		domain.FilingGSTR1:  time.Date(year, month+1, gstr1Day, 0, 0, 0, 0, time.UTC),
		domain.FilingGSTR3B: time.Date(year, month+1, gstr3bDay, 0, 0, 0, 0, time.UTC),
	}
}
