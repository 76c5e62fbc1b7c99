package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnknown RiskLevel = "Unknown"
)

type BenchmarkStatus string

const (
	BenchmarkAboveAverage BenchmarkStatus = "AboveAverage"
	BenchmarkBelowAverage BenchmarkStatus = "BelowAverage"
	BenchmarkUnknown      BenchmarkStatus = "Unknown"
)

// SummarySource tells whether a summary was built from fresh input or
// reconstructed from a persisted history record.
type SummarySource string

const (
	SourceAnalysis SummarySource = "analysis"
	SourceHistory  SummarySource = "history"
)

type Revenue struct {
	Total         decimal.Decimal
	GrowthPercent decimal.Decimal
	History       []decimal.Decimal // monthly totals, chronological
	Forecast      decimal.Decimal   // next period projection
}

type Expenses struct {
	Total     decimal.Decimal
	Breakdown map[string]decimal.Decimal // category -> amount, advisory only
}

type Benchmark struct {
	YourMargin     decimal.Decimal // percent, full precision
	IndustryMargin decimal.Decimal // percent
	Status         BenchmarkStatus
}

// DisplayMargin returns the margin rounded to one decimal place.
func (b Benchmark) DisplayMargin() decimal.Decimal {
	return b.YourMargin.Round(1)
}

// FinancialSummary is the canonical, fully populated analysis result.
// Values are treated as immutable once built.
type FinancialSummary struct {
	Source          SummarySource
	Revenue         Revenue
	NetProfit       decimal.Decimal
	Expenses        Expenses
	HealthScore     int
	RiskLevel       RiskLevel
	Benchmark       Benchmark
	Recommendations []RecommendationCode
	TaxCompliance   *TaxLedger
	EstimatedFields FieldSet
}

// IsEstimated reports whether the field was synthesized by a default rule.
func (s FinancialSummary) IsEstimated(f Field) bool {
	return s.EstimatedFields.Has(f)
}

// BuildInput carries the primitive figures a summary is built from.
type BuildInput struct {
	RevenueTotal     decimal.Decimal
	ExpensesTotal    decimal.Decimal
	NetProfit        decimal.Decimal
	ExpenseBreakdown map[string]decimal.Decimal // optional
	RevenueHistory   []decimal.Decimal          // optional
	HealthScore      *int                       // optional explicit scoring input
	CashReserve      *decimal.Decimal           // optional, feeds the runway rule
	AsOf             time.Time                  // reporting date for filing deadlines
}
