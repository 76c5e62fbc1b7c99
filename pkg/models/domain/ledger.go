package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaxStatus string

const (
	TaxStatusGood      TaxStatus = "Good"
	TaxStatusAttention TaxStatus = "Attention"
)

type FilingType string

const (
	FilingGSTR1  FilingType = "GSTR-1"
	FilingGSTR3B FilingType = "GSTR-3B"
)

type TaxBreakdown struct {
	OutputTotal decimal.Decimal
	OutputCGST  decimal.Decimal
	OutputSGST  decimal.Decimal
	ITCTotal    decimal.Decimal
	ITCCGST     decimal.Decimal
	ITCSGST     decimal.Decimal
	NetPayable  decimal.Decimal // OutputTotal - ITCTotal, negative means carry-forward credit
}

// PayableForDisplay floors the net payable at zero. The signed value stays in NetPayable.
func (b TaxBreakdown) PayableForDisplay() decimal.Decimal {
	if b.NetPayable.IsNegative() {
		return decimal.Zero
	}
	return b.NetPayable
}

// CreditCarryForward is the unused input credit when ITC exceeds output liability.
func (b TaxBreakdown) CreditCarryForward() decimal.Decimal {
	if b.NetPayable.IsNegative() {
		return b.NetPayable.Neg()
	}
	return decimal.Zero
}

type TaxLedger struct {
	Status    TaxStatus
	Breakdown TaxBreakdown
	Deadlines map[FilingType]time.Time
	Insight   string
}

// Clone returns a deep copy so callers never share the deadline map.
func (l *TaxLedger) Clone() *TaxLedger {
	if l == nil {
		return nil
	}
	c := *l
	c.Deadlines = make(map[FilingType]time.Time, len(l.Deadlines))
	for k, v := range l.Deadlines {
		c.Deadlines[k] = v
	}
	return &c
}
