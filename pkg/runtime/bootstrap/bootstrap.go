package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/events"
	"github.com/ledgercheck/finhealth/pkg/services/analysis"
	"github.com/ledgercheck/finhealth/pkg/services/config"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/store/backend"
	"github.com/rs/zerolog"
)

// App holds the wired services for one process.
type App struct {
	Config   config.Config
	Analysis analysis.Service
	Facade   *presentation.Facade

	closers []func() error
}

// Open wires the history backend, the event publisher and the analysis service from cfg.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	facade, err := presentation.Load(cfg.Presentation)
	if err != nil {
		return nil, fmt.Errorf("failed to load presentation catalog: %w", err)
	}

	store, cleanup, err := backend.Open(ctx, cfg.History)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Facade: facade, closers: []func() error{cleanup}}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	app.closers = append(app.closers, publisher.Close)
	if cfg.Events.Enabled {
		logger.Info().Str("exchange", cfg.Events.Exchange).Msg("Publishing analysis events")
	}

	svc, err := analysis.NewService(cfg.Policy, analysis.Dependencies{
		Store:     store,
		Publisher: publisher,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	app.Analysis = svc

	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
