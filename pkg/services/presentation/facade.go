package presentation

import (
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type Settings struct {
	// Currency used when a request names none (default: INR)
	DefaultCurrency string `mapstructure:"default_currency" validate:"required"`
	// Language used when a request names none (default: en)
	DefaultLanguage string `mapstructure:"default_language" validate:"required"`
	// Optional INI catalog replacing the built-in recommendation texts
	CatalogPath string `mapstructure:"catalog_path"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultCurrency: DefaultCurrency,
		DefaultLanguage: "en",
	}
}

// Display is a summary rendered for one currency and language.
type Display struct {
	Currency           string
	Language           string
	Revenue            string
	Forecast           string
	NetProfit          string
	Expenses           string
	ExpenseBreakdown   map[string]string
	Margin             string
	IndustryMargin     string
	NetPayable         string
	CreditCarryForward string
	Recommendations    []string
	EstimatedFields    []string
}

type Facade struct {
	catalog  Catalog
	settings Settings
}

func NewFacade(catalog Catalog, settings Settings) *Facade {
	return &Facade{catalog: catalog, settings: settings}
}

// Load builds a facade over the catalog named in settings, or the built-in one.
func Load(settings Settings) (*Facade, error) {
	if _, err := LookupCurrency(settings.DefaultCurrency); err != nil {
		return nil, fmt.Errorf("default currency: %w", err)
	}
	catalog, err := NewCatalog(settings.CatalogPath)
	if err != nil {
		return nil, err
	}
	return NewFacade(catalog, settings), nil
}

// Money returns a formatter for the currency and language, with the same defaults as Present.
func (f *Facade) Money(currency, lang string) (func(decimal.Decimal) string, error) {
	if currency == "" {
		currency = f.settings.DefaultCurrency
	}
	if lang == "" {
		lang = f.settings.DefaultLanguage
	}
	c, err := LookupCurrency(currency)
	if err != nil {
		return nil, err
	}
	return newMoneyFormat(c, f.catalog.Match(lang)).format, nil
}

// Present formats a summary for display. Empty currency or language select the defaults; an
// unsupported currency is an input error, an unsupported language falls back.
func (f *Facade) Present(s domain.FinancialSummary, currency, lang string) (Display, error) {
	if currency == "" {
		currency = f.settings.DefaultCurrency
	}
	if lang == "" {
		lang = f.settings.DefaultLanguage
	}
	c, err := LookupCurrency(currency)
	if err != nil {
		return Display{}, err
	}
	tag := f.catalog.Match(lang)
	money := newMoneyFormat(c, tag).format

	d := Display{
		Currency:         c.Code,
		Language:         tag.String(),
		Revenue:          money(s.Revenue.Total),
		Forecast:         money(s.Revenue.Forecast),
		NetProfit:        money(s.NetProfit),
		Expenses:         money(s.Expenses.Total),
		ExpenseBreakdown: make(map[string]string, len(s.Expenses.Breakdown)),
		Margin:           s.Benchmark.DisplayMargin().StringFixed(1) + "%",
		IndustryMargin:   s.Benchmark.IndustryMargin.StringFixed(1) + "%",
		Recommendations:  f.Recommendations(s.Recommendations, lang),
		EstimatedFields:  make([]string, 0, len(s.EstimatedFields)),
	}
	for category, amount := range s.Expenses.Breakdown {
		d.ExpenseBreakdown[category] = money(amount)
	}
	if s.TaxCompliance != nil {
		d.NetPayable = money(s.TaxCompliance.Breakdown.PayableForDisplay())
		d.CreditCarryForward = money(s.TaxCompliance.Breakdown.CreditCarryForward())
	}
	for _, field := range s.EstimatedFields.Sorted() {
		d.EstimatedFields = append(d.EstimatedFields, string(field))
	}
	return d, nil
}

func (f *Facade) Recommendations(codes []domain.RecommendationCode, lang string) []string {
	texts := make([]string, 0, len(codes))
	for _, code := range codes {
		texts = append(texts, f.catalog.Text(code, lang))
	}
	return texts
}
