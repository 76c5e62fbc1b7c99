package adapters

import (
	"testing"

	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSummaryDomainToApi(t *testing.T) {
	ledger := sampleLedger()
	ledger.Breakdown.NetPayable = dec("-1200")
	s := domain.FinancialSummary{
		Source: domain.SourceHistory,
		Revenue: domain.Revenue{
			Total:         dec("50000"),
			GrowthPercent: dec("11.111111"),
			History:       []decimal.Decimal{dec("45000"), dec("50000")},
			Forecast:      dec("52500"),
		},
		Expenses:        domain.Expenses{Total: dec("50000"), Breakdown: map[string]decimal.Decimal{"Estimated": dec("50000")}},
		NetProfit:       decimal.Zero,
		HealthScore:     75,
		RiskLevel:       domain.RiskUnknown,
		Benchmark:       domain.Benchmark{YourMargin: dec("12.345"), IndustryMargin: dec("15"), Status: domain.BenchmarkUnknown},
		TaxCompliance:   ledger,
		EstimatedFields: domain.NewFieldSet(domain.FieldRiskLevel, domain.FieldBenchmarkStatus),
	}

	out := MapSummaryDomainToApi(s)

	assert.Equal(t, "history", out.Source)
	assert.True(t, out.Revenue.Growth.Equal(dec("11.11")))
	assert.True(t, out.Benchmark.YourMargin.Equal(dec("12.3")))
	assert.Equal(t, api.BenchmarkUnknown, out.Benchmark.Status)
	assert.Equal(t, "Unknown", out.RiskLevel)
	require.NotNil(t, out.TaxCompliance)
	assert.True(t, out.TaxCompliance.Details.Breakdown.NetPayable.IsZero())
	assert.True(t, out.TaxCompliance.Details.Breakdown.CreditCarryForward.Equal(dec("1200")))
	assert.Equal(t, "2025-08-11", out.TaxCompliance.Details.Deadlines["GSTR-1"])
	assert.NotNil(t, out.Recommendations)
	assert.Empty(t, out.Recommendations)
	assert.Equal(t, []string{"benchmark.status", "riskLevel"}, out.EstimatedFields)
}

func TestMapBenchmarkStatusDomainToApi(t *testing.T) {
	assert.Equal(t, api.BenchmarkAboveAverage, MapBenchmarkStatusDomainToApi(domain.BenchmarkAboveAverage))
	assert.Equal(t, api.BenchmarkBelowAverage, MapBenchmarkStatusDomainToApi(domain.BenchmarkBelowAverage))
	assert.Equal(t, api.BenchmarkUnknown, MapBenchmarkStatusDomainToApi(""))
}

func TestMapManualEntryApiToDomain(t *testing.T) {
	revenue, expenses := dec("1000"), dec("1300")

	in := MapManualEntryApiToDomain(api.ManualEntryRequest{Revenue: &revenue, Expenses: &expenses})
	assert.True(t, in.NetProfit.Equal(dec("-300")))

	profit := dec("50")
	in = MapManualEntryApiToDomain(api.ManualEntryRequest{Revenue: &revenue, Expenses: &expenses, Profit: &profit})
	assert.True(t, in.NetProfit.Equal(dec("50")))
	assert.True(t, in.AsOf.IsZero())
}
