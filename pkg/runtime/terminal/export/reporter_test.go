package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/services/statement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainMoney(d decimal.Decimal) string {
	return "$" + d.String()
}

func TestReporter_Handle(t *testing.T) {
	buf := &bytes.Buffer{}
	reporter := NewReporter(buf)

	err := reporter.Handle(&Report{
		Title:    "Report",
		Subtitle: "sub",
		Sections: []ReportSection{{
			Title:   "Section",
			Summary: map[string]string{"Key": "value"},
			Details: []ReportDetail{{Name: "Row", Value: "42", Note: "n"}},
			Notes:   []string{"a note"},
		}},
	})
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "Report\n(sub)")
	assert.Contains(t, text, "=== Section ===")
	assert.Contains(t, text, "Key: value")
	assert.Contains(t, text, "- a note")

	var row string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "| Row") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	cfg := DefaultTableConfig()
	assert.Equal(t, cfg.NameWidth+cfg.ValueWidth+cfg.NoteWidth+10, len([]rune(row)))
}

func TestSummaryReport_MarksEstimatedFields(t *testing.T) {
	s := domain.FinancialSummary{
		Source:          domain.SourceHistory,
		HealthScore:     75,
		RiskLevel:       domain.RiskUnknown,
		EstimatedFields: domain.NewFieldSet(domain.FieldHealthScore, domain.FieldRiskLevel),
	}
	d := presentation.Display{Currency: "INR", Language: "en", EstimatedFields: []string{"healthScore", "riskLevel"}}

	r := SummaryReport("t", s, d)

	assert.Equal(t, "2 estimated field(s): healthScore, riskLevel", r.Subtitle)
	notes := map[string]string{}
	for _, detail := range r.Sections[0].Details {
		notes[detail.Name] = detail.Note
	}
	assert.Equal(t, "estimated", notes["Health score"])
	assert.Equal(t, "estimated", notes["Risk level"])
	assert.Equal(t, "", notes["Revenue"])
}

func TestLedgerReport(t *testing.T) {
	ledger := domain.TaxLedger{
		Status: domain.TaxStatusAttention,
		Breakdown: domain.TaxBreakdown{
			OutputTotal: decimal.NewFromInt(18),
			NetPayable:  decimal.NewFromInt(18),
		},
		Deadlines: map[domain.FilingType]time.Time{
			domain.FilingGSTR3B: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
			domain.FilingGSTR1:  time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC),
		},
		Insight: "File on time.",
	}

	r := LedgerReport(ledger, plainMoney)

	require.Len(t, r.Sections, 1)
	section := r.Sections[0]
	assert.Equal(t, "Attention", section.Summary["Status"])
	assert.Equal(t, []string{"File on time."}, section.Notes)
	names := make([]string, 0, len(section.Details))
	for _, d := range section.Details {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"Output tax", "  CGST", "  SGST", "Input tax credit", "  CGST", "  SGST",
		"Net payable", "Credit carried forward", "GSTR-1 due", "GSTR-3B due",
	}, names)
}

func TestHistoryReport(t *testing.T) {
	revenue := decimal.NewFromInt(500)
	r := HistoryReport([]domain.HistoryRecord{{
		ID:       "rec-1",
		Date:     time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Filename: "Manual Entry",
		Revenue:  &revenue,
	}}, plainMoney)

	require.Len(t, r.Sections[0].Details, 1)
	assert.Equal(t, "$500 / n/a", r.Sections[0].Details[0].Value)
	assert.Equal(t, "2025-07-15 Manual Entry", r.Sections[0].Details[0].Note)
}

func TestStatementReport(t *testing.T) {
	r := StatementReport(statement.Statement{
		Filename:  "july.csv",
		Format:    statement.FormatCSV,
		Layout:    statement.LayoutLong,
		Rows:      3,
		Columns:   []string{"type", "amount", "category"},
		Revenue:   decimal.NewFromInt(100),
		Expenses:  decimal.NewFromInt(60),
		Breakdown: map[string]decimal.Decimal{"rent": decimal.NewFromInt(60)},
	}, plainMoney)

	assert.Equal(t, "columns: type, amount, category", r.Subtitle)
	section := r.Sections[0]
	assert.Equal(t, "long", section.Summary["Layout"])
	assert.Equal(t, "$40", section.Details[2].Value)
	assert.Equal(t, "  rent", section.Details[3].Name)
}
