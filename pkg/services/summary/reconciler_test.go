package summary

import (
	"testing"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(revenue, profit string) domain.HistoryRecord {
	r, p := dec(revenue), dec(profit)
	return domain.HistoryRecord{
		ID:       "rec-1",
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Filename: "june.csv",
		Revenue:  &r,
		Profit:   &p,
	}
}

func TestReconstruct_ZeroProfit(t *testing.T) {
	// Given
	r := NewReconciler(policy.Default())

	// When
	s, err := r.Reconstruct(record("50000", "0"))

	// Then
	require.NoError(t, err)
	assert.Equal(t, domain.SourceHistory, s.Source)
	assert.True(t, s.Benchmark.YourMargin.IsZero())
	assert.Equal(t, domain.BenchmarkUnknown, s.Benchmark.Status)
	assert.Equal(t, domain.RiskUnknown, s.RiskLevel)
	assertDecimal(t, "50000", s.Expenses.Total)
	assertDecimal(t, "50000", s.Expenses.Breakdown["Estimated"])
	assert.Equal(t, 75, s.HealthScore)
	assert.NotNil(t, s.Recommendations)
	assert.Empty(t, s.Recommendations)
	assert.Nil(t, s.TaxCompliance)
}

func TestReconstruct_ZeroRevenue(t *testing.T) {
	r := NewReconciler(policy.Default())

	s, err := r.Reconstruct(record("0", "0"))

	require.NoError(t, err)
	assert.True(t, s.Benchmark.YourMargin.IsZero())
	assert.Equal(t, domain.BenchmarkUnknown, s.Benchmark.Status)
	assert.True(t, s.Revenue.GrowthPercent.IsZero())
}

func TestReconstruct_EstimatedFields(t *testing.T) {
	r := NewReconciler(policy.Default())

	s, err := r.Reconstruct(record("100000", "20000"))

	require.NoError(t, err)
	for _, f := range []domain.Field{
		domain.FieldRevenueGrowth,
		domain.FieldRevenueHistory,
		domain.FieldRevenueForecast,
		domain.FieldExpensesBreakdown,
		domain.FieldHealthScore,
		domain.FieldRiskLevel,
		domain.FieldBenchmarkStatus,
	} {
		assert.True(t, s.IsEstimated(f), "expected %s to be estimated", f)
	}
	assert.False(t, s.IsEstimated(domain.FieldExpensesTotal))
	assertDecimal(t, "80000", s.Expenses.Total)
	assertDecimal(t, "20", s.Benchmark.YourMargin)
	// A strong margin is still not classified, since the inputs are partial.
	assert.Equal(t, domain.BenchmarkUnknown, s.Benchmark.Status)
	assertDecimal(t, "90000", s.Revenue.History[0])
}

func TestReconstruct_ProfitAboveRevenue(t *testing.T) {
	r := NewReconciler(policy.Default())

	s, err := r.Reconstruct(record("1000", "1500"))

	require.NoError(t, err)
	assert.True(t, s.Expenses.Total.IsZero())
	assert.True(t, s.IsEstimated(domain.FieldExpensesTotal))
}

func TestReconstruct_CarriesPersistedFields(t *testing.T) {
	rec := record("100000", "20000")
	rec.Recommendations = []domain.RecommendationCode{domain.RecCashFlowBuffer}
	rec.TaxCompliance = &domain.TaxLedger{
		Status:    domain.TaxStatusGood,
		Breakdown: domain.TaxBreakdown{NetPayable: dec("3600")},
		Deadlines: map[domain.FilingType]time.Time{domain.FilingGSTR1: time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)},
	}
	r := NewReconciler(policy.Default())

	s, err := r.Reconstruct(rec)

	require.NoError(t, err)
	assert.Equal(t, []domain.RecommendationCode{domain.RecCashFlowBuffer}, s.Recommendations)
	require.NotNil(t, s.TaxCompliance)
	assertDecimal(t, "3600", s.TaxCompliance.Breakdown.NetPayable)

	// the record is left untouched
	s.Recommendations[0] = domain.RecWorkingCapital
	s.TaxCompliance.Deadlines[domain.FilingGSTR3B] = time.Time{}
	assert.Equal(t, domain.RecCashFlowBuffer, rec.Recommendations[0])
	assert.Len(t, rec.TaxCompliance.Deadlines, 1)
}

func TestReconstruct_Idempotent(t *testing.T) {
	rec := record("73000", "-4000")
	r := NewReconciler(policy.Default())

	first, err := r.Reconstruct(rec)
	require.NoError(t, err)
	second, err := r.Reconstruct(rec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconstruct_Errors(t *testing.T) {
	r := NewReconciler(policy.Default())
	revenue := decimal.NewFromInt(10)
	negative := decimal.NewFromInt(-10)

	_, err := r.Reconstruct(domain.HistoryRecord{ID: "a", Revenue: &revenue})
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)

	_, err = r.Reconstruct(domain.HistoryRecord{ID: "b", Profit: &revenue})
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)

	_, err = r.Reconstruct(domain.HistoryRecord{ID: "c", Revenue: &negative, Profit: &revenue})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
