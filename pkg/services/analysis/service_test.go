package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgercheck/finhealth/pkg/events"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/models/store"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Add(ctx context.Context, record store.HistoryRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockStore) Get(ctx context.Context, id string) (*store.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.HistoryRecord), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, limit int) ([]store.HistoryRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.HistoryRecord), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAnalysisCompleted(ctx context.Context, msg events.AnalysisCompleted) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type fixture struct {
	store     *MockStore
	publisher *MockPublisher
	service   Service
}

func setupFixture(t *testing.T) *fixture {
	st := &MockStore{}
	pub := &MockPublisher{}
	svc, err := NewService(policy.Default(), Dependencies{
		Store:     st,
		Publisher: pub,
		Now:       func() time.Time { return now },
		NewID:     func() string { return "rec-1" },
	})
	require.NoError(t, err)
	return &fixture{store: st, publisher: pub, service: svc}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func TestNewService(t *testing.T) {
	_, err := NewService(policy.Default(), Dependencies{})
	assert.Error(t, err)

	bad := policy.Default()
	bad.Tax.GSTR1DueDay = 0
	_, err = NewService(bad, Dependencies{Store: &MockStore{}})
	assert.Error(t, err)
}

func TestService_AnalyzeManual(t *testing.T) {
	// Given
	f := setupFixture(t)
	f.store.On("Add", mock.Anything, mock.MatchedBy(func(r store.HistoryRecord) bool {
		return r.ID == "rec-1" &&
			r.Filename == "Manual Entry" &&
			*r.Revenue == "100000" &&
			*r.Profit == "20000" &&
			r.TaxCompliance != nil &&
			r.TaxCompliance.Deadlines["GSTR-1"] == "2025-08-11"
	})).Return(nil)
	f.publisher.On("PublishAnalysisCompleted", mock.Anything, mock.MatchedBy(func(m events.AnalysisCompleted) bool {
		return m.RecordID == "rec-1" && m.Method == MethodManual && m.TaxStatus == "Good"
	})).Return(nil)

	// When
	res, err := f.service.AnalyzeManual(context.Background(), domain.BuildInput{
		RevenueTotal:  dec("100000"),
		ExpensesTotal: dec("80000"),
		NetProfit:     dec("20000"),
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t, MethodManual, res.Method)
	assert.Equal(t, "rec-1", res.Record.ID)
	assert.Equal(t, now, res.Record.Date)
	assert.Equal(t, domain.SourceAnalysis, res.Summary.Source)
	assert.Nil(t, res.Statement)
	f.store.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestService_AnalyzeManual_InvalidInput(t *testing.T) {
	f := setupFixture(t)

	_, err := f.service.AnalyzeManual(context.Background(), domain.BuildInput{RevenueTotal: dec("-5")})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestService_PublishFailureIsNotFatal(t *testing.T) {
	f := setupFixture(t)
	f.store.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishAnalysisCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	res, err := f.service.AnalyzeManual(context.Background(), domain.BuildInput{
		RevenueTotal:  dec("10"),
		ExpensesTotal: dec("5"),
		NetProfit:     dec("5"),
	})

	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestService_StoreFailureIsFatal(t *testing.T) {
	f := setupFixture(t)
	f.store.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.service.AnalyzeManual(context.Background(), domain.BuildInput{
		RevenueTotal:  dec("10"),
		ExpensesTotal: dec("5"),
		NetProfit:     dec("5"),
	})

	assert.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	f.publisher.AssertNotCalled(t, "PublishAnalysisCompleted", mock.Anything, mock.Anything)
}

func TestService_AnalyzeStatement(t *testing.T) {
	f := setupFixture(t)
	f.store.On("Add", mock.Anything, mock.MatchedBy(func(r store.HistoryRecord) bool {
		return r.Filename == "q1.csv" && *r.Revenue == "330000" && *r.Profit == "165000"
	})).Return(nil)
	f.publisher.On("PublishAnalysisCompleted", mock.Anything, mock.MatchedBy(func(m events.AnalysisCompleted) bool {
		return m.Method == MethodUpload && m.Filename == "q1.csv"
	})).Return(nil)
	data := []byte("month,revenue,expenses\nJan,100000,50000\nFeb,110000,55000\nMar,120000,60000\n")

	res, err := f.service.AnalyzeStatement(context.Background(), "q1.csv", data, time.Time{})

	require.NoError(t, err)
	require.NotNil(t, res.Statement)
	assert.Len(t, res.Summary.Revenue.History, 3)
	assert.False(t, res.Summary.IsEstimated(domain.FieldRevenueHistory))
	assert.True(t, res.Summary.IsEstimated(domain.FieldExpensesBreakdown))
	f.store.AssertExpectations(t)
}

func TestService_AnalyzeStatement_Unsupported(t *testing.T) {
	f := setupFixture(t)

	_, err := f.service.AnalyzeStatement(context.Background(), "scan.pdf", []byte("%PDF"), now)

	assert.ErrorIs(t, err, domain.ErrUnsupportedStatement)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestService_Ledger(t *testing.T) {
	f := setupFixture(t)

	ledger, err := f.service.Ledger(context.Background(), dec("100000"), dec("80000"), time.Time{})

	require.NoError(t, err)
	assert.True(t, ledger.Breakdown.NetPayable.Equal(dec("3600")))
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), ledger.Deadlines[domain.FilingGSTR3B])
}

func TestService_ListHistory(t *testing.T) {
	f := setupFixture(t)
	f.store.On("List", mock.Anything, 10).Return([]store.HistoryRecord{
		{ID: "good", Revenue: strPtr("100"), Profit: strPtr("10")},
		{ID: "corrupt", Revenue: strPtr("abc")},
		{ID: "partial", Revenue: strPtr("50")},
	}, nil)

	records, err := f.service.ListHistory(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "good", records[0].ID)
	assert.Equal(t, "partial", records[1].ID)
	assert.Nil(t, records[1].Profit)
}

func TestService_Reconstruct(t *testing.T) {
	f := setupFixture(t)
	f.store.On("Get", mock.Anything, "rec-1").Return(&store.HistoryRecord{
		ID:              "rec-1",
		Revenue:         strPtr("50000"),
		Profit:          strPtr("0"),
		Recommendations: []string{"REC_WORKING_CAPITAL"},
	}, nil)
	f.store.On("Get", mock.Anything, "partial").Return(&store.HistoryRecord{ID: "partial", Revenue: strPtr("1")}, nil)
	f.store.On("Get", mock.Anything, "missing").Return(nil, domain.ErrRecordNotFound)

	sum, record, err := f.service.Reconstruct(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, domain.SourceHistory, sum.Source)
	assert.Equal(t, domain.BenchmarkUnknown, sum.Benchmark.Status)
	assert.True(t, sum.Expenses.Total.Equal(dec("50000")))
	assert.Equal(t, []domain.RecommendationCode{domain.RecWorkingCapital}, sum.Recommendations)

	_, _, err = f.service.Reconstruct(context.Background(), "partial")
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)

	_, _, err = f.service.Reconstruct(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
