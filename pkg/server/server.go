package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/ledgercheck/finhealth/pkg/handlers/analysis"
	"github.com/ledgercheck/finhealth/pkg/services/analysis"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	finhealthmiddleware "github.com/ledgercheck/finhealth/pkg/server/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analysis       analysis.Service
	Facade         *presentation.Facade
	MaxUploadBytes int64
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	h := handlers.NewHandler(deps.Analysis, deps.Facade, deps.MaxUploadBytes)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(finhealthmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis/manual", h.ManualEntry)
		r.Post("/analysis/upload", h.Upload)
		r.Get("/ledger", h.Ledger)
		r.Get("/reports/history", h.ListHistory)
		r.Get("/reports/history/{id}", h.GetReport)
	})

	return router
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			return w.server.Close()
		}
		return nil
	})

	return g.Wait()
}
