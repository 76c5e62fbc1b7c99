package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/runtime/bootstrap"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/ledgercheck/finhealth/pkg/services/config"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Renderer interface {
	Render(report *export.Report, payload any) error
}

type OpenFunc func(ctx context.Context, cfg config.Config) (*bootstrap.App, error)

// Env is what every command shares: the config loader, the app opener and the output renderer.
type Env struct {
	LoadConfig func() (config.Config, error)
	Open       OpenFunc
	Renderer   func() (Renderer, error)
}

func (e *Env) open(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := e.LoadConfig()
	if err != nil {
		return nil, err
	}
	return e.Open(ctx, cfg)
}

func (e *Env) render(report *export.Report, payload any) error {
	r, err := e.Renderer()
	if err != nil {
		return err
	}
	return r.Render(report, payload)
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s %q is not a number", domain.ErrInvalidInput, name, raw)
	}
	return d, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --as-of must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}
