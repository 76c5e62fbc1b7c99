package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/services/statement"
	"github.com/shopspring/decimal"
)

const (
	dateLayout    = "2006-01-02"
	estimatedNote = "estimated"
)

// Report is a titled set of sections rendered by the Reporter.
type Report struct {
	Title    string
	Subtitle string
	Sections []ReportSection
}

type ReportSection struct {
	Title   string
	Summary map[string]string
	Details []ReportDetail
	Notes   []string
}

type ReportDetail struct {
	Name  string
	Value string
	Note  string
}

// MoneyFunc formats an amount in the report currency.
type MoneyFunc func(decimal.Decimal) string

func SummaryReport(title string, s domain.FinancialSummary, d presentation.Display) *Report {
	note := func(f domain.Field) string {
		if s.IsEstimated(f) {
			return estimatedNote
		}
		return ""
	}

	overview := ReportSection{
		Title: "Overview",
		Summary: map[string]string{
			"Source":   string(s.Source),
			"Currency": d.Currency,
			"Language": d.Language,
		},
		Details: []ReportDetail{
			{Name: "Revenue", Value: d.Revenue},
			{Name: "Expenses", Value: d.Expenses, Note: note(domain.FieldExpensesTotal)},
			{Name: "Net profit", Value: d.NetProfit},
			{Name: "Growth", Value: s.Revenue.GrowthPercent.StringFixed(2) + "%", Note: note(domain.FieldRevenueGrowth)},
			{Name: "Forecast", Value: d.Forecast, Note: note(domain.FieldRevenueForecast)},
			{Name: "Health score", Value: strconv.Itoa(s.HealthScore), Note: note(domain.FieldHealthScore)},
			{Name: "Risk level", Value: string(s.RiskLevel), Note: note(domain.FieldRiskLevel)},
			{Name: "Margin", Value: d.Margin},
			{Name: "Industry margin", Value: d.IndustryMargin},
			{Name: "Benchmark", Value: string(s.Benchmark.Status), Note: note(domain.FieldBenchmarkStatus)},
		},
	}

	expenses := ReportSection{Title: "Expense breakdown"}
	for _, category := range sortedKeys(d.ExpenseBreakdown) {
		expenses.Details = append(expenses.Details, ReportDetail{
			Name:  category,
			Value: d.ExpenseBreakdown[category],
			Note:  note(domain.FieldExpensesBreakdown),
		})
	}

	sections := []ReportSection{overview, expenses}
	if s.TaxCompliance != nil {
		sections = append(sections, ledgerSection(*s.TaxCompliance, d.NetPayable, d.CreditCarryForward))
	}
	sections = append(sections, ReportSection{Title: "Recommendations", Notes: d.Recommendations})

	return &Report{Title: title, Subtitle: estimatedSubtitle(d.EstimatedFields), Sections: sections}
}

func LedgerReport(l domain.TaxLedger, money MoneyFunc) *Report {
	section := ledgerSection(l, money(l.Breakdown.PayableForDisplay()), money(l.Breakdown.CreditCarryForward()))
	section.Details = append([]ReportDetail{
		{Name: "Output tax", Value: money(l.Breakdown.OutputTotal)},
		{Name: "  CGST", Value: money(l.Breakdown.OutputCGST)},
		{Name: "  SGST", Value: money(l.Breakdown.OutputSGST)},
		{Name: "Input tax credit", Value: money(l.Breakdown.ITCTotal)},
		{Name: "  CGST", Value: money(l.Breakdown.ITCCGST)},
		{Name: "  SGST", Value: money(l.Breakdown.ITCSGST)},
	}, section.Details...)
	return &Report{Title: "GST ledger", Sections: []ReportSection{section}}
}

func ledgerSection(l domain.TaxLedger, netPayable, credit string) ReportSection {
	section := ReportSection{
		Title:   "Tax compliance",
		Summary: map[string]string{"Status": string(l.Status)},
		Details: []ReportDetail{
			{Name: "Net payable", Value: netPayable},
			{Name: "Credit carried forward", Value: credit},
		},
	}
	filings := make([]string, 0, len(l.Deadlines))
	for filing := range l.Deadlines {
		filings = append(filings, string(filing))
	}
	sort.Strings(filings)
	for _, filing := range filings {
		section.Details = append(section.Details, ReportDetail{
			Name:  filing + " due",
			Value: l.Deadlines[domain.FilingType(filing)].Format(dateLayout),
		})
	}
	if l.Insight != "" {
		section.Notes = []string{l.Insight}
	}
	return section
}

func HistoryReport(records []domain.HistoryRecord, money MoneyFunc) *Report {
	section := ReportSection{Title: fmt.Sprintf("%d record(s)", len(records))}
	for _, r := range records {
		section.Details = append(section.Details, ReportDetail{
			Name:  r.ID,
			Value: optionalMoney(r.Revenue, money) + " / " + optionalMoney(r.Profit, money),
			Note:  r.Date.Format(dateLayout) + " " + r.Filename,
		})
	}
	return &Report{
		Title:    "Analysis history",
		Subtitle: "revenue / profit, newest first",
		Sections: []ReportSection{section},
	}
}

func StatementReport(st statement.Statement, money MoneyFunc) *Report {
	section := ReportSection{
		Title: st.Filename,
		Summary: map[string]string{
			"Format":  string(st.Format),
			"Layout":  string(st.Layout),
			"Rows":    strconv.Itoa(st.Rows),
			"Skipped": strconv.Itoa(st.Skipped),
		},
		Details: []ReportDetail{
			{Name: "Revenue", Value: money(st.Revenue)},
			{Name: "Expenses", Value: money(st.Expenses)},
			{Name: "Net profit", Value: money(st.NetProfit())},
		},
	}
	for _, category := range sortedKeys(st.Breakdown) {
		section.Details = append(section.Details, ReportDetail{
			Name:  "  " + category,
			Value: money(st.Breakdown[category]),
			Note:  "expense category",
		})
	}
	for i, amount := range st.History {
		section.Details = append(section.Details, ReportDetail{
			Name:  fmt.Sprintf("Period %d", i+1),
			Value: money(amount),
			Note:  "revenue",
		})
	}
	return &Report{
		Title:    "Statement extraction",
		Subtitle: "columns: " + strings.Join(st.Columns, ", "),
		Sections: []ReportSection{section},
	}
}

func estimatedSubtitle(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return fmt.Sprintf("%d estimated field(s): %s", len(fields), strings.Join(fields, ", "))
}

func optionalMoney(d *decimal.Decimal, money MoneyFunc) string {
	if d == nil {
		return "n/a"
	}
	return money(*d)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
