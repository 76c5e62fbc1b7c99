package domain

import "sort"

// Field names a summary field using its dotted wire path.
type Field string

const (
	FieldRevenueGrowth     Field = "revenue.growthPercent"
	FieldRevenueHistory    Field = "revenue.history"
	FieldRevenueForecast   Field = "revenue.forecast"
	FieldExpensesTotal     Field = "expenses.total"
	FieldExpensesBreakdown Field = "expenses.breakdown"
	FieldHealthScore       Field = "healthScore"
	FieldRiskLevel         Field = "riskLevel"
	FieldBenchmarkStatus   Field = "benchmark.status"
)

// FieldSet is the set of fields that were synthesized rather than sourced.
type FieldSet map[Field]struct{}

func NewFieldSet(fields ...Field) FieldSet {
	fs := make(FieldSet, len(fields))
	for _, f := range fields {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs FieldSet) Add(f Field) {
	fs[f] = struct{}{}
}

func (fs FieldSet) Has(f Field) bool {
	_, ok := fs[f]
	return ok
}

// Sorted returns the fields in lexical order, for stable output.
func (fs FieldSet) Sorted() []Field {
	out := make([]Field, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
