package commands

import (
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	env *Env

	limit    int
	currency string
}

func NewHistoryCmd(env *Env) *cobra.Command {
	hc := &HistoryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses, newest first",
		RunE:  hc.run,
	}

	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Maximum number of records (0 for all)")
	cmd.Flags().StringVar(&hc.currency, "currency", "", "Display currency")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if hc.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	app, err := hc.env.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	money, err := app.Facade.Money(hc.currency, "")
	if err != nil {
		return err
	}

	records, err := app.Analysis.ListHistory(ctx, hc.limit)
	if err != nil {
		return err
	}

	payload := make([]api.HistoryItem, 0, len(records))
	for _, r := range records {
		payload = append(payload, adapters.MapHistoryDomainToApi(r))
	}
	return hc.env.render(export.HistoryReport(records, money), payload)
}
