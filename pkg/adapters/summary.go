package adapters

import (
	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/shopspring/decimal"
)

const historyDateLayout = "2006-01-02"

func MapBenchmarkStatusDomainToApi(s domain.BenchmarkStatus) api.BenchmarkStatus {
	switch s {
	case domain.BenchmarkAboveAverage:
		return api.BenchmarkAboveAverage
	case domain.BenchmarkBelowAverage:
		return api.BenchmarkBelowAverage
	default:
		return api.BenchmarkUnknown
	}
}

func MapTaxLedgerDomainToApi(l *domain.TaxLedger) *api.TaxCompliance {
	if l == nil {
		return nil
	}
	b := l.Breakdown
	out := &api.TaxCompliance{
		Status: string(l.Status),
		Details: api.TaxDetails{
			Breakdown: api.TaxBreakdown{
				OutputTotal:        b.OutputTotal,
				OutputCGST:         b.OutputCGST,
				OutputSGST:         b.OutputSGST,
				ITCTotal:           b.ITCTotal,
				ITCCGST:            b.ITCCGST,
				ITCSGST:            b.ITCSGST,
				NetPayable:         b.PayableForDisplay(),
				CreditCarryForward: b.CreditCarryForward(),
			},
			Deadlines: make(map[string]string, len(l.Deadlines)),
			Insight:   l.Insight,
		},
	}
	for filing, due := range l.Deadlines {
		out.Details.Deadlines[string(filing)] = due.Format(historyDateLayout)
	}
	return out
}

func MapSummaryDomainToApi(s domain.FinancialSummary) api.FinancialSummary {
	out := api.FinancialSummary{
		Source: string(s.Source),
		Revenue: api.Revenue{
			Total:    s.Revenue.Total,
			Growth:   s.Revenue.GrowthPercent.Round(2),
			History:  append([]decimal.Decimal{}, s.Revenue.History...),
			Forecast: s.Revenue.Forecast.Round(2),
		},
		Expenses: api.Expenses{
			Total:     s.Expenses.Total,
			Breakdown: make(map[string]decimal.Decimal, len(s.Expenses.Breakdown)),
		},
		NetProfit:   s.NetProfit,
		HealthScore: s.HealthScore,
		RiskLevel:   string(s.RiskLevel),
		Benchmark: api.Benchmark{
			IndustryMargin: s.Benchmark.IndustryMargin,
			YourMargin:     s.Benchmark.DisplayMargin(),
			Status:         MapBenchmarkStatusDomainToApi(s.Benchmark.Status),
		},
		TaxCompliance:   MapTaxLedgerDomainToApi(s.TaxCompliance),
		Recommendations: make([]string, 0, len(s.Recommendations)),
		EstimatedFields: make([]string, 0, len(s.EstimatedFields)),
	}
	for category, amount := range s.Expenses.Breakdown {
		out.Expenses.Breakdown[category] = amount
	}
	for _, code := range s.Recommendations {
		out.Recommendations = append(out.Recommendations, string(code))
	}
	for _, field := range s.EstimatedFields.Sorted() {
		out.EstimatedFields = append(out.EstimatedFields, string(field))
	}
	return out
}

func MapDisplayToApi(d presentation.Display) *api.Display {
	return &api.Display{
		Currency:           d.Currency,
		Language:           d.Language,
		Revenue:            d.Revenue,
		Forecast:           d.Forecast,
		NetProfit:          d.NetProfit,
		Expenses:           d.Expenses,
		ExpenseBreakdown:   d.ExpenseBreakdown,
		Margin:             d.Margin,
		IndustryMargin:     d.IndustryMargin,
		NetPayable:         d.NetPayable,
		CreditCarryForward: d.CreditCarryForward,
		Recommendations:    d.Recommendations,
		EstimatedFields:    d.EstimatedFields,
	}
}

func MapHistoryDomainToApi(r domain.HistoryRecord) api.HistoryItem {
	out := api.HistoryItem{
		ID:              r.ID,
		Date:            r.Date.Format(historyDateLayout),
		Filename:        r.Filename,
		Revenue:         r.Revenue,
		Profit:          r.Profit,
		Recommendations: make([]string, 0, len(r.Recommendations)),
		TaxCompliance:   MapTaxLedgerDomainToApi(r.TaxCompliance),
	}
	for _, code := range r.Recommendations {
		out.Recommendations = append(out.Recommendations, string(code))
	}
	return out
}

// MapManualEntryApiToDomain converts a validated request. The as-of date is resolved by the caller.
func MapManualEntryApiToDomain(req api.ManualEntryRequest) domain.BuildInput {
	in := domain.BuildInput{
		ExpenseBreakdown: req.ExpenseBreakdown,
		RevenueHistory:   req.RevenueHistory,
		HealthScore:      req.HealthScore,
		CashReserve:      req.CashReserve,
	}
	if req.Revenue != nil {
		in.RevenueTotal = *req.Revenue
	}
	if req.Expenses != nil {
		in.ExpensesTotal = *req.Expenses
	}
	if req.Profit != nil {
		in.NetProfit = *req.Profit
	} else {
		in.NetProfit = in.RevenueTotal.Sub(in.ExpensesTotal)
	}
	return in
}
