package benchmark

import (
	"testing"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name           string
		netProfit      string
		revenue        string
		estimated      bool
		expectedMargin string
		expectedStatus domain.BenchmarkStatus
	}{
		{name: "above industry", netProfit: "20000", revenue: "100000", expectedMargin: "20", expectedStatus: domain.BenchmarkAboveAverage},
		{name: "below industry", netProfit: "10000", revenue: "100000", expectedMargin: "10", expectedStatus: domain.BenchmarkBelowAverage},
		{name: "equal to industry is below", netProfit: "15000", revenue: "100000", expectedMargin: "15", expectedStatus: domain.BenchmarkBelowAverage},
		{name: "loss", netProfit: "-5000", revenue: "100000", expectedMargin: "-5", expectedStatus: domain.BenchmarkBelowAverage},
		{name: "zero revenue", netProfit: "0", revenue: "0", expectedMargin: "0", expectedStatus: domain.BenchmarkUnknown},
		{name: "zero revenue with profit", netProfit: "500", revenue: "0", expectedMargin: "0", expectedStatus: domain.BenchmarkUnknown},
		{name: "estimated inputs", netProfit: "20000", revenue: "100000", estimated: true, expectedMargin: "20", expectedStatus: domain.BenchmarkUnknown},
	}

	ev := NewEvaluator(policy.Default().Benchmark)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ev.Evaluate(dec(tt.netProfit), dec(tt.revenue), tt.estimated)

			assert.True(t, b.YourMargin.Equal(dec(tt.expectedMargin)), "margin %s", b.YourMargin)
			assert.True(t, b.IndustryMargin.Equal(dec("15")))
			assert.Equal(t, tt.expectedStatus, b.Status)
		})
	}
}

func TestEvaluate_ConfigurableIndustryMargin(t *testing.T) {
	ev := NewEvaluator(policy.BenchmarkPolicy{IndustryMargin: dec("25")})

	b := ev.Evaluate(dec("20000"), dec("100000"), false)

	assert.Equal(t, domain.BenchmarkBelowAverage, b.Status)
}

func TestDisplayMargin_RoundsToOneDecimal(t *testing.T) {
	b := NewEvaluator(policy.Default().Benchmark).Evaluate(dec("1"), dec("3"), false)

	assert.Equal(t, "33.3", b.DisplayMargin().String())
	assert.True(t, b.YourMargin.GreaterThan(dec("33.33")), "full precision retained")
}
