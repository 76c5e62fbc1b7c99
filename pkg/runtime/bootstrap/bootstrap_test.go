package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg := config.Default()
	cfg.History.SQLite.DbPath = filepath.Join(t.TempDir(), "finhealth.db")

	app, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	result, err := app.Analysis.AnalyzeManual(ctx, domain.BuildInput{
		RevenueTotal:  decimal.NewFromInt(100000),
		ExpensesTotal: decimal.NewFromInt(80000),
		NetProfit:     decimal.NewFromInt(20000),
		AsOf:          time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	records, err := app.Analysis.ListHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.Record.ID, records[0].ID)

	d, err := app.Facade.Present(result.Summary, "", "")
	require.NoError(t, err)
	assert.Equal(t, "₹100,000", d.Revenue)
}

func TestOpen_InvalidCurrency(t *testing.T) {
	cfg := config.Default()
	cfg.Presentation.DefaultCurrency = "XYZ"

	_, err := Open(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClose_ReverseOrder(t *testing.T) {
	var order []int
	app := &App{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
	}}

	require.NoError(t, app.Close())
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, app.Close())
}
