package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryRecord is the lossy persisted form of an analysis. Breakdown, health score,
// risk level and benchmark are never stored.
type HistoryRecord struct {
	ID              string
	Date            time.Time
	Filename        string
	Revenue         *decimal.Decimal
	Profit          *decimal.Decimal
	Recommendations []RecommendationCode // nil when not persisted
	TaxCompliance   *TaxLedger
}

// Validate checks the mandatory fields needed to reconstruct a summary.
func (r HistoryRecord) Validate() error {
	if r.Revenue == nil {
		return fmt.Errorf("%w: record %q has no revenue", ErrIncompleteRecord, r.ID)
	}
	if r.Profit == nil {
		return fmt.Errorf("%w: record %q has no profit", ErrIncompleteRecord, r.ID)
	}
	return nil
}
