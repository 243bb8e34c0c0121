package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/catalog/internal/domain"
)

var (
	// Any Unicode space may separate thousands: NBSP, thin, figure, ideographic.
	priceRunPattern    = regexp.MustCompile(`\d[\d\s\p{Zs}\x{0B}\x{2028}\x{2029}\x{FEFF}.,]*`)
	priceJunkPattern   = regexp.MustCompile(`[^0-9.,-]`)
	floatPrefixPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

type priceStrategy struct {
	name  string
	kind  domain.RawKind
	parse func(domain.RawValue) (float64, bool)
}

// Order matters: the first strategy whose kind matches decides the result.
var priceStrategies = []priceStrategy{
	{name: "number", kind: domain.RawNumber, parse: priceFromNumber},
	{name: "text", kind: domain.RawString, parse: priceFromText},
}

// ParsePrice extracts a price from a number|string|null dataset field.
// A nil result means "no price".
func ParsePrice(v domain.RawValue) *float64 {
	for _, s := range priceStrategies {
		if s.kind != v.Kind {
			continue
		}
		if n, ok := s.parse(v); ok {
			return &n
		}
		return nil
	}
	return nil
}

func priceFromNumber(v domain.RawValue) (float64, bool) {
	if !v.IsFiniteNumber() {
		return 0, false
	}
	return v.Num, true
}

func priceFromText(v domain.RawValue) (float64, bool) {
	run, ok := longestNumericRun(v.Str)
	if !ok {
		return 0, false
	}
	clean := priceJunkPattern.ReplaceAllString(run, "")
	clean = strings.Replace(clean, ",", ".", 1)
	return parseFloatPrefix(clean)
}

// longestNumericRun keeps the first of equally long runs.
func longestNumericRun(s string) (string, bool) {
	matches := priceRunPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if utf8.RuneCountInString(m) > utf8.RuneCountInString(best) {
			best = m
		}
	}
	return best, true
}

// parseFloatPrefix parses the longest leading float literal, ignoring trailing garbage.
func parseFloatPrefix(s string) (float64, bool) {
	prefix := floatPrefixPattern.FindString(s)
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
