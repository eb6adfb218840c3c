package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"receipts/internal"
)

var (
	groupedDotPattern   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	groupedCommaPattern = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	plainAmountPattern  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	isoCodePattern      = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ParsePrice reads a locale-formatted currency string such as "$12.99",
// "€1.234,50" or "1 299,00 kr". Anything it cannot read yields the zero Price.
func ParsePrice(input string) internal.Price {
	line := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	negative := false
	if strings.HasPrefix(line, "-") {
		negative = true
		line = strings.TrimSpace(line[1:])
	}

	symbol, body, ok := splitCurrencySymbol(line)
	if !ok {
		return internal.Price{}
	}
	if strings.HasPrefix(body, "-") {
		negative = true
		body = body[1:]
	}

	norm, ok := normalizeAmountToken(body)
	if !ok {
		return internal.Price{}
	}
	amount, err := decimal.NewFromString(norm)
	if err != nil {
		return internal.Price{}
	}
	if negative {
		amount = amount.Neg()
	}
	return internal.Price{Symbol: symbol, Amount: amount}
}

func splitCurrencySymbol(line string) (symbol, body string, ok bool) {
	start := strings.IndexFunc(line, isASCIIDigit)
	end := strings.LastIndexFunc(line, isASCIIDigit)
	if start < 0 {
		return "", "", false
	}

	prefix := line[:start]
	// "$.99" keeps the separator with the digits.
	for strings.HasSuffix(prefix, ".") || strings.HasSuffix(prefix, ",") || strings.HasSuffix(prefix, "-") {
		prefix = prefix[:len(prefix)-1]
		start--
	}
	prefix = strings.TrimSpace(prefix)
	suffix := strings.TrimSpace(line[end+1:])

	switch {
	case prefix != "" && suffix == "":
		symbol = prefix
	case suffix != "" && prefix == "":
		symbol = suffix
	default:
		return "", "", false
	}
	if !isCurrencySymbol(symbol) {
		return "", "", false
	}
	return symbol, line[start : end+1], true
}

func isCurrencySymbol(symbol string) bool {
	if isoCodePattern.MatchString(symbol) {
		return true
	}
	// kr, zł and friends are letters only; accept short lowercase tokens.
	hasSign := false
	letters := 0
	for _, r := range symbol {
		switch {
		case unicode.Is(unicode.Sc, r):
			hasSign = true
		case unicode.IsLetter(r):
			letters++
		case r == '.':
		default:
			return false
		}
	}
	if hasSign {
		return letters <= 3
	}
	return letters >= 2 && letters <= 3 && strings.ToLower(symbol) == symbol
}

func normalizeAmountToken(token string) (string, bool) {
	compact := strings.NewReplacer(" ", "", "'", "", "\u202F", "").Replace(token)
	if compact == "" {
		return "", false
	}

	lastDot := strings.LastIndex(compact, ".")
	lastComma := strings.LastIndex(compact, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			compact = strings.ReplaceAll(compact, ",", "")
		} else {
			compact = strings.ReplaceAll(compact, ".", "")
			compact = strings.ReplaceAll(compact, ",", ".")
		}
	case lastComma >= 0:
		if groupedCommaPattern.MatchString(compact) {
			compact = strings.ReplaceAll(compact, ",", "")
		} else {
			compact = strings.ReplaceAll(compact, ",", ".")
		}
	case lastDot >= 0:
		if groupedDotPattern.MatchString(compact) {
			compact = strings.ReplaceAll(compact, ".", "")
		}
	}

	if strings.HasPrefix(compact, ".") {
		compact = "0" + compact
	}
	if !plainAmountPattern.MatchString(compact) {
		return "", false
	}
	return compact, true
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
