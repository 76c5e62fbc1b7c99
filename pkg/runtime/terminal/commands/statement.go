package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/services/statement"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type StatementCmd struct {
	env *Env

	currency string
}

type statementPayload struct {
	Filename  string                     `json:"filename"`
	Format    string                     `json:"format"`
	Layout    string                     `json:"layout"`
	Rows      int                        `json:"rows_processed"`
	Skipped   int                        `json:"rows_skipped"`
	Columns   []string                   `json:"columns"`
	Revenue   decimal.Decimal            `json:"revenue"`
	Expenses  decimal.Decimal            `json:"expenses"`
	Profit    decimal.Decimal            `json:"profit"`
	Breakdown map[string]decimal.Decimal `json:"expense_breakdown,omitempty"`
	History   []decimal.Decimal          `json:"revenue_history,omitempty"`
}

// NewStatementCmd previews what would be extracted from a statement, without analyzing or recording it.
func NewStatementCmd(env *Env) *cobra.Command {
	sc := &StatementCmd{env: env}
	cmd := &cobra.Command{
		Use:   "statement <file>",
		Short: "Show the totals extracted from a statement file",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.currency, "currency", "", "Display currency")

	return cmd
}

func (sc *StatementCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := sc.env.LoadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	st, err := statement.NewExtractor().Extract(cmd.Context(), filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	facade, err := presentation.Load(cfg.Presentation)
	if err != nil {
		return err
	}
	money, err := facade.Money(sc.currency, "")
	if err != nil {
		return err
	}

	payload := statementPayload{
		Filename:  st.Filename,
		Format:    string(st.Format),
		Layout:    string(st.Layout),
		Rows:      st.Rows,
		Skipped:   st.Skipped,
		Columns:   st.Columns,
		Revenue:   st.Revenue,
		Expenses:  st.Expenses,
		Profit:    st.NetProfit(),
		Breakdown: st.Breakdown,
		History:   st.History,
	}
	return sc.env.render(export.StatementReport(st, money), payload)
}
