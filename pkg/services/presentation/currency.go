package presentation

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultCurrency = "INR"

type Currency struct {
	Code   string
	Symbol string
}

var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$"},
	"INR": {Code: "INR", Symbol: "₹"},
	"EUR": {Code: "EUR", Symbol: "€"},
	"GBP": {Code: "GBP", Symbol: "£"},
}

// LookupCurrency finds a supported currency by its ISO code, case-insensitively.
func LookupCurrency(code string) (Currency, error) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: unsupported currency %q", domain.ErrInvalidInput, code)
	}
	return c, nil
}

func CurrencyCodes() []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FormatMoney prefixes the amount with the currency symbol and groups digits for the language.
// Only the symbol changes between currencies, the amount is never converted.
func FormatMoney(amount decimal.Decimal, c Currency, tag language.Tag) string {
	return newMoneyFormat(c, tag).format(amount)
}

// moneyFormat holds the separators and group sizes of a language. Digits come from the decimal
// itself so large amounts keep every digit.
type moneyFormat struct {
	symbol    string
	group     string
	point     string
	primary   int
	secondary int
}

func newMoneyFormat(c Currency, tag language.Tag) moneyFormat {
	p := message.NewPrinter(tag)
	f := moneyFormat{symbol: c.Symbol, group: ",", point: "."}

	groups, seps := splitDigits(p.Sprint(number.Decimal(int64(10_000_000))))
	if len(groups) > 1 {
		f.group = seps[0]
		f.primary = len(groups[len(groups)-1])
		f.secondary = f.primary
		if len(groups) > 2 {
			f.secondary = len(groups[len(groups)-2])
		}
	}
	if _, seps := splitDigits(p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1)))); len(seps) == 1 {
		f.point = seps[0]
	}
	return f
}

// format rounds half away from zero to two places and drops trailing fraction zeros.
func (f moneyFormat) format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().String(), ".")

	out := f.symbol + f.groupDigits(whole)
	if frac != "" {
		out += f.point + frac
	}
	if rounded.IsNegative() {
		return "-" + out
	}
	return out
}

func (f moneyFormat) groupDigits(digits string) string {
	if f.primary <= 0 || len(digits) <= f.primary {
		return digits
	}
	head, tail := digits[:len(digits)-f.primary], digits[len(digits)-f.primary:]

	var parts []string
	for len(head) > f.secondary {
		parts = append([]string{head[len(head)-f.secondary:]}, parts...)
		head = head[:len(head)-f.secondary]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(append(parts, tail), f.group)
}

// splitDigits splits a formatted number into its digit runs and the separators between them.
func splitDigits(s string) (groups, seps []string) {
	var cur strings.Builder
	inDigits := false
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		if inDigits {
			groups = append(groups, cur.String())
		} else if len(groups) > 0 {
			seps = append(seps, cur.String())
		}
		cur.Reset()
	}
	for _, r := range s {
		if d := unicode.IsDigit(r); d != inDigits {
			flush()
			inDigits = d
		}
		cur.WriteRune(r)
	}
	flush()
	return groups, seps
}
