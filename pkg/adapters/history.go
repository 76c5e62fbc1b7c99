package adapters

import (
	"fmt"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/models/store"
	"github.com/shopspring/decimal"
)

// NewHistoryRecord derives the lossy persisted record from a fresh summary.
func NewHistoryRecord(id string, date time.Time, filename string, s domain.FinancialSummary) domain.HistoryRecord {
	revenue, profit := s.Revenue.Total, s.NetProfit
	recs := make([]domain.RecommendationCode, len(s.Recommendations))
	copy(recs, s.Recommendations)

	return domain.HistoryRecord{
		ID:              id,
		Date:            date,
		Filename:        filename,
		Revenue:         &revenue,
		Profit:          &profit,
		Recommendations: recs,
		TaxCompliance:   s.TaxCompliance.Clone(),
	}
}

func MapDomainHistoryToStore(r domain.HistoryRecord) store.HistoryRecord {
	out := store.HistoryRecord{
		ID:            r.ID,
		CreatedAt:     r.Date.UTC(),
		Filename:      r.Filename,
		Revenue:       decimalString(r.Revenue),
		Profit:        decimalString(r.Profit),
		TaxCompliance: mapDomainLedgerToStore(r.TaxCompliance),
	}
	if r.Recommendations != nil {
		out.Recommendations = make([]string, 0, len(r.Recommendations))
		for _, code := range r.Recommendations {
			out.Recommendations = append(out.Recommendations, string(code))
		}
	}
	return out
}

// MapStoreHistoryToDomain parses a persisted record. Missing amounts stay nil so the
// reconciler can report the record as incomplete; malformed amounts are an error.
func MapStoreHistoryToDomain(r store.HistoryRecord) (domain.HistoryRecord, error) {
	out := domain.HistoryRecord{
		ID:       r.ID,
		Date:     r.CreatedAt,
		Filename: r.Filename,
	}

	var err error
	if out.Revenue, err = parseDecimal(r.Revenue); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("record %s revenue: %w", r.ID, err)
	}
	if out.Profit, err = parseDecimal(r.Profit); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("record %s profit: %w", r.ID, err)
	}
	if r.Recommendations != nil {
		out.Recommendations = make([]domain.RecommendationCode, 0, len(r.Recommendations))
		for _, code := range r.Recommendations {
			out.Recommendations = append(out.Recommendations, domain.RecommendationCode(code))
		}
	}
	if out.TaxCompliance, err = mapStoreLedgerToDomain(r.TaxCompliance); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("record %s tax compliance: %w", r.ID, err)
	}
	return out, nil
}

func mapDomainLedgerToStore(l *domain.TaxLedger) *store.TaxLedger {
	if l == nil {
		return nil
	}
	b := l.Breakdown
	out := &store.TaxLedger{
		Status:      string(l.Status),
		OutputTotal: b.OutputTotal.String(),
		OutputCGST:  b.OutputCGST.String(),
		OutputSGST:  b.OutputSGST.String(),
		ITCTotal:    b.ITCTotal.String(),
		ITCCGST:     b.ITCCGST.String(),
		ITCSGST:     b.ITCSGST.String(),
		NetPayable:  b.NetPayable.String(),
		Deadlines:   make(map[string]string, len(l.Deadlines)),
		Insight:     l.Insight,
	}
	for filing, due := range l.Deadlines {
		out.Deadlines[string(filing)] = due.Format(historyDateLayout)
	}
	return out
}

func mapStoreLedgerToDomain(l *store.TaxLedger) (*domain.TaxLedger, error) {
	if l == nil {
		return nil, nil
	}

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{l.OutputTotal, new(decimal.Decimal)},
		{l.OutputCGST, new(decimal.Decimal)},
		{l.OutputSGST, new(decimal.Decimal)},
		{l.ITCTotal, new(decimal.Decimal)},
		{l.ITCCGST, new(decimal.Decimal)},
		{l.ITCSGST, new(decimal.Decimal)},
		{l.NetPayable, new(decimal.Decimal)},
	}
	for _, a := range amounts {
		if a.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, err
		}
		*a.dst = d
	}

	out := &domain.TaxLedger{
		Status: domain.TaxStatus(l.Status),
		Breakdown: domain.TaxBreakdown{
			OutputTotal: *amounts[0].dst,
			OutputCGST:  *amounts[1].dst,
			OutputSGST:  *amounts[2].dst,
			ITCTotal:    *amounts[3].dst,
			ITCCGST:     *amounts[4].dst,
			ITCSGST:     *amounts[5].dst,
			NetPayable:  *amounts[6].dst,
		},
		Deadlines: make(map[domain.FilingType]time.Time, len(l.Deadlines)),
		Insight:   l.Insight,
	}
	for filing, raw := range l.Deadlines {
		due, err := time.Parse(historyDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("deadline %s: %w", filing, err)
		}
		out.Deadlines[domain.FilingType(filing)] = due
	}
	return out, nil
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
