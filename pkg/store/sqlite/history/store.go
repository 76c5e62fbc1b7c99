package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/models/store"
	"github.com/ledgercheck/finhealth/pkg/store/history"
	"github.com/rs/zerolog"
)

// fixed width UTC so that created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, created_at, filename, revenue, profit, recommendations, tax_compliance`

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (history.Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Add(ctx context.Context, record store.HistoryRecord) error {
	recommendations, err := marshalNullable(record.Recommendations, record.Recommendations == nil)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	ledger, err := marshalNullable(record.TaxCompliance, record.TaxCompliance == nil)
	if err != nil {
		return fmt.Errorf("encode tax compliance: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history_records (
			id, created_at, filename, revenue, profit, recommendations, tax_compliance
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CreatedAt.UTC().Format(timeLayout),
		record.Filename,
		nullString(record.Revenue),
		nullString(record.Profit),
		recommendations,
		ledger,
	)
	if err != nil {
		return fmt.Errorf("insert history record %s: %w", record.ID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("id", record.ID).Msg("History record saved")
	return nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (*store.HistoryRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM history_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get history record %s: %w", id, err)
	}
	return record, nil
}

func (s *sqlStore) List(ctx context.Context, limit int) ([]store.HistoryRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM history_records ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history records: %w", err)
	}
	defer rows.Close()

	records := []store.HistoryRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if errors.Is(err, history.ErrUnreadableRecord) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Skipping unreadable history record")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history records: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*store.HistoryRecord, error) {
	var (
		record          store.HistoryRecord
		createdAt       string
		revenue, profit sql.NullString
		recommendations sql.NullString
		ledger          sql.NullString
	)
	if err := row.Scan(&record.ID, &createdAt, &record.Filename, &revenue, &profit, &recommendations, &ledger); err != nil {
		return nil, err
	}

	var err error
	if record.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("%w: parse created_at of %s: %v", history.ErrUnreadableRecord, record.ID, err)
	}
	if revenue.Valid {
		record.Revenue = &revenue.String
	}
	if profit.Valid {
		record.Profit = &profit.String
	}
	if recommendations.Valid {
		if err := json.Unmarshal([]byte(recommendations.String), &record.Recommendations); err != nil {
			return nil, fmt.Errorf("%w: decode recommendations of %s: %v", history.ErrUnreadableRecord, record.ID, err)
		}
	}
	if ledger.Valid {
		record.TaxCompliance = &store.TaxLedger{}
		if err := json.Unmarshal([]byte(ledger.String), record.TaxCompliance); err != nil {
			return nil, fmt.Errorf("%w: decode tax compliance of %s: %v", history.ErrUnreadableRecord, record.ID, err)
		}
	}
	return &record, nil
}

func marshalNullable(v interface{}, isNil bool) (sql.NullString, error) {
	if isNil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
