package commands

import (
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/models/api"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ReconstructCmd struct {
	env *Env

	currency string
	lang     string
}

func NewReconstructCmd(env *Env) *cobra.Command {
	rc := &ReconstructCmd{env: env}
	cmd := &cobra.Command{
		Use:   "reconstruct <record-id>",
		Short: "Rebuild the full summary of a recorded analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.currency, "currency", "", "Display currency")
	cmd.Flags().StringVar(&rc.lang, "lang", "", "Language for recommendation text")

	return cmd
}

func (rc *ReconstructCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	app, err := rc.env.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sum, record, err := app.Analysis.Reconstruct(ctx, id)
	if err != nil {
		return fmt.Errorf("cannot reconstruct %s: %w", id, err)
	}

	display, err := app.Facade.Present(sum, rc.currency, rc.lang)
	if err != nil {
		return err
	}

	payload := api.ReportResponse{
		Record:           adapters.MapHistoryDomainToApi(record),
		FinancialSummary: adapters.MapSummaryDomainToApi(sum),
	}
	payload.FinancialSummary.Display = adapters.MapDisplayToApi(display)

	title := fmt.Sprintf("Financial summary %s (%s, %s)", record.ID, record.Filename, record.Date.Format(dateLayout))
	return rc.env.render(export.SummaryReport(title, sum, display), payload)
}
