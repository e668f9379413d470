// Package format renders amounts for display. Amounts are always in reais;
// the locale only decides the separators.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Locale describes how numbers are grouped and punctuated.
type Locale struct {
	Tag       language.Tag
	Thousands string
	Decimal   string
}

var (
	// BrazilianPortuguese renders R$ 1.234,56 and is the default.
	BrazilianPortuguese = Locale{Tag: language.BrazilianPortuguese, Thousands: ".", Decimal: ","}

	// AmericanEnglish renders R$ 1,234.56.
	AmericanEnglish = Locale{Tag: language.AmericanEnglish, Thousands: ",", Decimal: "."}
)

const (
	infinity   = "∞"
	notANumber = "NaN"
)

// The first supported locale is the matcher's fallback.
var supported = []Locale{BrazilianPortuguese, AmericanEnglish}

var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		tags = append(tags, l.Tag)
	}
	return tags
}

// DefaultLocale returns the pt-BR locale.
func DefaultLocale() Locale {
	return BrazilianPortuguese
}

// MatchLocale picks the closest supported locale for a list of preferences,
// given as BCP 47 tags or a raw Accept-Language header value. Empty or
// unparseable preferences fall back to pt-BR.
func MatchLocale(preferences ...string) Locale {
	var tags []language.Tag
	for _, pref := range preferences {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return DefaultLocale()
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale()
	}
	return supported[index]
}

// Currency formats an amount with the R$ prefix, e.g. "R$ 1.234,56" or "-R$ 0,50".
func (l Locale) Currency(amount float64) string {
	number, negative := l.number(amount)
	if negative {
		return "-" + constants.CurrencySymbol + " " + number
	}
	return constants.CurrencySymbol + " " + number
}

// Number formats an amount with separators but no symbol, e.g. "-1.234,56".
func (l Locale) Number(amount float64) string {
	number, negative := l.number(amount)
	if negative {
		return "-" + number
	}
	return number
}

// Percent formats a percentage with two decimals, e.g. "3,00%".
func (l Locale) Percent(percent float64) string {
	return l.Number(percent) + "%"
}

// number rounds half away from zero to cents and groups the integer part.
// Overflowed amounts render as the infinity sign and NaN as "NaN".
func (l Locale) number(amount float64) (string, bool) {
	switch {
	case math.IsNaN(amount):
		return notANumber, false
	case math.IsInf(amount, 0):
		return infinity, amount < 0
	}

	rounded := decimal.NewFromFloat(amount).Round(constants.DecimalPlaces)
	negative := rounded.IsNegative()

	formatted := rounded.Abs().StringFixed(constants.DecimalPlaces)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteString(l.Thousands)
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + l.Decimal + decPart, negative
}

// Currency formats an amount in the default locale.
func Currency(amount float64) string {
	return DefaultLocale().Currency(amount)
}
