package api

import "github.com/shopspring/decimal"

type BenchmarkStatus string

const (
	BenchmarkAboveAverage BenchmarkStatus = "Above Average"
	BenchmarkBelowAverage BenchmarkStatus = "Below Average"
	BenchmarkUnknown      BenchmarkStatus = "Unknown"
)

// ManualEntryRequest carries figures typed in by the user. Profit defaults to revenue - expenses.
type ManualEntryRequest struct {
	Revenue          *decimal.Decimal           `json:"revenue" validate:"required"`
	Expenses         *decimal.Decimal           `json:"expenses" validate:"required"`
	Profit           *decimal.Decimal           `json:"profit,omitempty"`
	ExpenseBreakdown map[string]decimal.Decimal `json:"expense_breakdown,omitempty"`
	RevenueHistory   []decimal.Decimal          `json:"revenue_history,omitempty"`
	HealthScore      *int                       `json:"health_score,omitempty" validate:"omitempty,min=0,max=100"`
	CashReserve      *decimal.Decimal           `json:"cash_reserve,omitempty"`
	AsOf             string                     `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Revenue struct {
	Total    decimal.Decimal   `json:"total"`
	Growth   decimal.Decimal   `json:"growth"`
	History  []decimal.Decimal `json:"history"`
	Forecast decimal.Decimal   `json:"forecast"`
}

type Expenses struct {
	Total     decimal.Decimal            `json:"total"`
	Breakdown map[string]decimal.Decimal `json:"breakdown"`
}

type Benchmark struct {
	IndustryMargin decimal.Decimal `json:"industry_margin"`
	YourMargin     decimal.Decimal `json:"your_margin"`
	Status         BenchmarkStatus `json:"status"`
}

type TaxBreakdown struct {
	OutputTotal decimal.Decimal `json:"output_total"`
	OutputCGST  decimal.Decimal `json:"output_cgst"`
	OutputSGST  decimal.Decimal `json:"output_sgst"`
	ITCTotal    decimal.Decimal `json:"itc_total"`
	ITCCGST     decimal.Decimal `json:"itc_cgst"`
	ITCSGST     decimal.Decimal `json:"itc_sgst"`
	// NetPayable is floored at zero, unused credit is reported in CreditCarryForward
	NetPayable         decimal.Decimal `json:"net_payable"`
	CreditCarryForward decimal.Decimal `json:"credit_carry_forward"`
}

type TaxDetails struct {
	Breakdown TaxBreakdown      `json:"breakdown"`
	Deadlines map[string]string `json:"deadlines"`
	Insight   string            `json:"insight"`
}

type TaxCompliance struct {
	Status  string     `json:"status"`
	Details TaxDetails `json:"details"`
}

type FinancialSummary struct {
	Source          string          `json:"source"`
	Revenue         Revenue         `json:"revenue"`
	Expenses        Expenses        `json:"expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	HealthScore     int             `json:"health_score"`
	RiskLevel       string          `json:"risk_level"`
	Benchmark       Benchmark       `json:"benchmark"`
	TaxCompliance   *TaxCompliance  `json:"tax_compliance"`
	Recommendations []string        `json:"recommendations"`
	EstimatedFields []string        `json:"estimated_fields"`
	Display         *Display        `json:"display,omitempty"`
}

// Display is the summary formatted for one currency and language.
type Display struct {
	Currency           string            `json:"currency"`
	Language           string            `json:"language"`
	Revenue            string            `json:"revenue"`
	Forecast           string            `json:"forecast"`
	NetProfit          string            `json:"net_profit"`
	Expenses           string            `json:"expenses"`
	ExpenseBreakdown   map[string]string `json:"expense_breakdown"`
	Margin             string            `json:"margin"`
	IndustryMargin     string            `json:"industry_margin"`
	NetPayable         string            `json:"net_payable,omitempty"`
	CreditCarryForward string            `json:"credit_carry_forward,omitempty"`
	Recommendations    []string          `json:"recommendations"`
	EstimatedFields    []string          `json:"estimated_fields"`
}

type AnalysisResponse struct {
	Status           string           `json:"status"`
	Method           string           `json:"method"`
	RecordID         string           `json:"record_id"`
	Filename         string           `json:"filename,omitempty"`
	RowsProcessed    int              `json:"rows_processed,omitempty"`
	Columns          []string         `json:"columns,omitempty"`
	FinancialSummary FinancialSummary `json:"financial_summary"`
}

type HistoryItem struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	Filename        string           `json:"filename"`
	Revenue         *decimal.Decimal `json:"revenue"`
	Profit          *decimal.Decimal `json:"profit"`
	Recommendations []string         `json:"recommendations"`
	TaxCompliance   *TaxCompliance   `json:"tax_compliance"`
}

type ReportResponse struct {
	Record           HistoryItem      `json:"record"`
	FinancialSummary FinancialSummary `json:"financial_summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
