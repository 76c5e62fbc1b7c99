package backend

import (
	"context"
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/store/history"
	s3history "github.com/ledgercheck/finhealth/pkg/store/s3/history"
	"github.com/ledgercheck/finhealth/pkg/store/sqlite"
	sqlitehistory "github.com/ledgercheck/finhealth/pkg/store/sqlite/history"
	"github.com/rs/zerolog"
)

type Type string

const (
	SQLite Type = "sqlite"
	S3     Type = "s3"
)

func (t Type) IsValid() bool {
	return t == SQLite || t == S3
}

type Settings struct {
	// Backend type, sqlite or s3 (default: sqlite)
	Backend Type               `mapstructure:"backend" validate:"oneof=sqlite s3"`
	SQLite  sqlite.Settings    `mapstructure:"sqlite"`
	S3      s3history.Settings `mapstructure:"s3"`
}

func DefaultSettings() Settings {
	return Settings{
		Backend: SQLite,
		SQLite:  sqlite.DefaultSettings(),
		S3:      s3history.DefaultSettings(),
	}
}

type CleanupFunc func() error

// Open creates the configured history store and a cleanup releasing its resources.
func Open(ctx context.Context, settings Settings) (history.Store, CleanupFunc, error) {
	logger := zerolog.Ctx(ctx)

	switch settings.Backend {
	case SQLite:
		db, err := sqlite.NewDB(settings.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite history store: %w", err)
		}
		s, err := sqlitehistory.NewStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info().Str("db_path", settings.SQLite.DbPath).Msg("Initialized sqlite history store")
		return s, db.Close, nil

	case S3:
		client, err := s3history.NewClient(ctx, settings.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize s3 history store: %w", err)
		}
		s, err := s3history.NewStore(client, settings.S3)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("bucket", settings.S3.Bucket).Str("prefix", settings.S3.Prefix).Msg("Initialized s3 history store")
		return s, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported history backend: %q", settings.Backend)
	}
}
