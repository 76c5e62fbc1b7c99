package commands

import (
	"time"

	"github.com/ledgercheck/finhealth/pkg/adapters"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/services/tax"
	"github.com/spf13/cobra"
)

type LedgerCmd struct {
	env *Env

	revenue  string
	expenses string
	asOf     string
	currency string
	now      func() time.Time
}

// NewLedgerCmd computes a GST ledger without touching history.
func NewLedgerCmd(env *Env) *cobra.Command {
	lc := &LedgerCmd{env: env, now: time.Now}
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Compute the GST ledger for a revenue and expense total",
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.revenue, "revenue", "", "Taxable revenue")
	cmd.Flags().StringVar(&lc.expenses, "expenses", "", "Expenses eligible for input tax credit")
	cmd.Flags().StringVar(&lc.asOf, "as-of", "", "Reporting date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&lc.currency, "currency", "", "Display currency")

	_ = cmd.MarkFlagRequired("revenue")
	_ = cmd.MarkFlagRequired("expenses")

	return cmd
}

func (lc *LedgerCmd) run(_ *cobra.Command, _ []string) error {
	cfg, err := lc.env.LoadConfig()
	if err != nil {
		return err
	}

	revenue, err := parseAmount("revenue", lc.revenue)
	if err != nil {
		return err
	}
	expenses, err := parseAmount("expenses", lc.expenses)
	if err != nil {
		return err
	}
	asOf, err := parseDate(lc.asOf)
	if err != nil {
		return err
	}
	if asOf.IsZero() {
		asOf = lc.now()
	}

	ledger, err := tax.NewCalculator(cfg.Policy.Tax).ComputeLedger(revenue, expenses, asOf)
	if err != nil {
		return err
	}

	facade, err := presentation.Load(cfg.Presentation)
	if err != nil {
		return err
	}
	money, err := facade.Money(lc.currency, "")
	if err != nil {
		return err
	}

	return lc.env.render(export.LedgerReport(ledger, money), adapters.MapTaxLedgerDomainToApi(&ledger))
}
