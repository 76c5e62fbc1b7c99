package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/events"
	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/ledgercheck/finhealth/pkg/services/statement"
	"github.com/ledgercheck/finhealth/pkg/services/summary"
	"github.com/ledgercheck/finhealth/pkg/services/tax"
	"github.com/ledgercheck/finhealth/pkg/store/history"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	MethodManual = "manual_entry"
	MethodUpload = "upload"

	manualFilename = "Manual Entry"
)

// Result is a fresh analysis together with the record persisted for it.
type Result struct {
	Method    string
	Summary   domain.FinancialSummary
	Record    domain.HistoryRecord
	Statement *statement.Statement // upload only
}

type Service interface {
	AnalyzeManual(ctx context.Context, in domain.BuildInput) (*Result, error)
	AnalyzeStatement(ctx context.Context, filename string, data []byte, asOf time.Time) (*Result, error)
	Ledger(ctx context.Context, revenue, expenses decimal.Decimal, asOf time.Time) (domain.TaxLedger, error)
	ListHistory(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	GetRecord(ctx context.Context, id string) (domain.HistoryRecord, error)
	Reconstruct(ctx context.Context, id string) (domain.FinancialSummary, domain.HistoryRecord, error)
}

type Dependencies struct {
	Store     history.Store
	Publisher events.Publisher
	Extractor statement.Extractor
	// Now defaults to time.Now
	Now func() time.Time
	// NewID defaults to random UUIDs
	NewID func() string
}

type service struct {
	builder    *summary.Builder
	reconciler *summary.Reconciler
	ledger     *tax.Calculator
	store      history.Store
	publisher  events.Publisher
	extractor  statement.Extractor
	now        func() time.Time
	newID      func() string
}

func NewService(p policy.Policy, deps Dependencies) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("history store is nil")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	s := &service{
		builder:    summary.NewBuilder(p),
		reconciler: summary.NewReconciler(p),
		ledger:     tax.NewCalculator(p.Tax),
		store:      deps.Store,
		publisher:  deps.Publisher,
		extractor:  deps.Extractor,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.extractor == nil {
		s.extractor = statement.NewExtractor()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

func (s *service) AnalyzeManual(ctx context.Context, in domain.BuildInput) (*Result, error) {
	if in.AsOf.IsZero() {
		in.AsOf = s.now()
	}
	sum, err := s.builder.Build(in)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, MethodManual, manualFilename, sum, nil)
}

func (s *service) AnalyzeStatement(ctx context.Context, filename string, data []byte, asOf time.Time) (*Result, error) {
	st, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}

	sum, err := s.builder.Build(st.BuildInput(asOf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s.persist(ctx, MethodUpload, filename, sum, &st)
}

func (s *service) persist(
	ctx context.Context,
	method string,
	filename string,
	sum domain.FinancialSummary,
	st *statement.Statement,
) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	record := adapters.NewHistoryRecord(s.newID(), s.now().UTC(), filename, sum)
	if err := s.store.Add(ctx, adapters.MapDomainHistoryToStore(record)); err != nil {
		logger.Error().Err(err).Str("record_id", record.ID).Msg("Failed to persist history record")
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	msg := events.AnalysisCompleted{
		RecordID:        record.ID,
		Method:          method,
		Revenue:         sum.Revenue.Total.String(),
		NetProfit:       sum.NetProfit.String(),
		Recommendations: make([]string, 0, len(sum.Recommendations)),
		Timestamp:       record.Date,
	}
	if method == MethodUpload {
		msg.Filename = filename
	}
	if sum.TaxCompliance != nil {
		msg.TaxStatus = string(sum.TaxCompliance.Status)
	}
	for _, code := range sum.Recommendations {
		msg.Recommendations = append(msg.Recommendations, string(code))
	}
	if err := s.publisher.PublishAnalysisCompleted(ctx, msg); err != nil {
		logger.Warn().Err(err).Str("record_id", record.ID).Msg("Failed to publish analysis event")
	}

	logger.Info().
		Str("record_id", record.ID).
		Str("method", method).
		Strs("recommendations", msg.Recommendations).
		Msg("Analysis completed")

	return &Result{Method: method, Summary: sum, Record: record, Statement: st}, nil
}

func (s *service) Ledger(_ context.Context, revenue, expenses decimal.Decimal, asOf time.Time) (domain.TaxLedger, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.ledger.ComputeLedger(revenue, expenses, asOf)
}

func (s *service) ListHistory(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	records := make([]domain.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		record, err := adapters.MapStoreHistoryToDomain(row)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("record_id", row.ID).Msg("Skipping unreadable history record")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *service) GetRecord(ctx context.Context, id string) (domain.HistoryRecord, error) {
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	record, err := adapters.MapStoreHistoryToDomain(*row)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("%w: %v", domain.ErrIncompleteRecord, err)
	}
	return record, nil
}

func (s *service) Reconstruct(ctx context.Context, id string) (domain.FinancialSummary, domain.HistoryRecord, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return domain.FinancialSummary{}, domain.HistoryRecord{}, err
	}
	sum, err := s.reconciler.Reconstruct(record)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("record_id", id).Msg("Cannot reconstruct history record")
		return domain.FinancialSummary{}, record, err
	}
	return sum, record, nil
}
