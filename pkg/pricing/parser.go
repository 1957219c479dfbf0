// Package pricing turns messy scraped price text into exact, comparable,
// single-currency amounts and ranks the resulting offers. Everything here is
// pure and deterministic; no network calls.
package pricing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"scout-base/pkg/models"
)

// currencyTokenMap maps symbols, codes and common prefixes to ISO codes.
var currencyTokenMap = map[string]string{
	"₹":   "INR",
	"rs":  "INR",
	"rs.": "INR",
	"inr": "INR",
	"$":   "USD",
	"usd": "USD",
	"us$": "USD",
	"€":   "EUR",
	"eur": "EUR",
	"£":   "GBP",
	"gbp": "GBP",
	"¥":   "JPY",
	"jpy": "JPY",
	"aed": "AED",
	"د.إ": "AED",
	"د":   "AED",
	"cad": "CAD",
	"c$":  "CAD",
	"aud": "AUD",
	"a$":  "AUD",
}

// currencyTokens is the lookup order: longest first so "c$" wins over "$",
// ties broken lexicographically to keep detection deterministic.
var currencyTokens = func() []string {
	tokens := make([]string, 0, len(currencyTokenMap))
	for tok := range currencyTokenMap {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}()

var (
	isoCodeRe      = regexp.MustCompile(`\b([a-z]{3})\b`)
	numericTokenRe = regexp.MustCompile(`-?\s*[0-9][0-9,.'\s]*`)
	fracDigitsRe   = regexp.MustCompile(`^\d{1,2}$`)
	validNumberRe  = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	percentRe      = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// DetectCurrency resolves a currency code from an explicit hint or by
// scanning the text for known tokens. It never fails; unknown input yields
// models.UnknownCurrency.
func DetectCurrency(text, hint string) string {
	if hint != "" {
		h := strings.ToLower(strings.TrimSpace(hint))
		if code, ok := currencyTokenMap[h]; ok {
			return code
		}
		return strings.ToUpper(h)
	}
	if text == "" {
		return models.UnknownCurrency
	}
	t := strings.ToLower(strings.TrimSpace(text))
	for _, tok := range currencyTokens {
		if strings.Contains(t, tok) {
			return currencyTokenMap[tok]
		}
	}
	if m := isoCodeRe.FindStringSubmatch(t); m != nil {
		if code, ok := currencyTokenMap[m[1]]; ok {
			return code
		}
		return strings.ToUpper(m[1])
	}
	return models.UnknownCurrency
}

// stripToNumeric drops currency tokens and letters, keeping digits,
// separators, sign and spaces. NBSP and thin spaces become plain spaces.
func stripToNumeric(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '\'', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// inferSeparators decides which of '.'/',' is the decimal separator.
// With both present, the one appearing last wins. With one present, it is
// decimal only when followed by exactly 1-2 trailing digits.
func inferSeparators(s string) (decSep, thouSep byte) {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			return ',', '.'
		}
		return '.', ','
	case lastComma >= 0:
		if fracDigitsRe.MatchString(s[lastComma+1:]) {
			return ',', 0
		}
		return 0, ','
	case lastDot >= 0:
		if fracDigitsRe.MatchString(s[lastDot+1:]) {
			return '.', 0
		}
		return 0, '.'
	}
	return 0, 0
}

// ExtractAmount parses a numeric value out of arbitrary locale-formatted
// text. The second return is false when no valid number remains.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	t := stripToNumeric(text)
	if t == "" {
		return decimal.Zero, false
	}

	tokens := numericTokenRe.FindAllString(t, -1)
	if len(tokens) == 0 {
		return decimal.Zero, false
	}

	// Prefer the longest token carrying a minus sign (signed discounts),
	// otherwise the last token, which is most often the price itself.
	pick := tokens[len(tokens)-1]
	for _, tok := range tokens {
		if strings.Contains(tok, "-") && len(tok) > len(pick) {
			pick = tok
		}
	}
	if !strings.ContainsAny(pick, "0123456789") {
		return decimal.Zero, false
	}

	s := strings.TrimSpace(pick)
	decSep, thouSep := inferSeparators(s)

	work := strings.NewReplacer(" ", "", "'", "").Replace(s)
	if thouSep != 0 {
		work = strings.ReplaceAll(work, string(thouSep), "")
	}
	if decSep != 0 && decSep != '.' {
		work = strings.ReplaceAll(work, string(decSep), ".")
	}

	// Keep only digits, dot and sign.
	var clean strings.Builder
	for _, r := range work {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			clean.WriteRune(r)
		}
	}
	work = clean.String()

	// A minus sign only counts at the very front; embedded hyphens (ranges,
	// SKU fragments) are discarded.
	if strings.Contains(work, "-") {
		if strings.HasPrefix(work, "-") {
			work = "-" + strings.ReplaceAll(work[1:], "-", "")
		} else {
			work = strings.ReplaceAll(work, "-", "")
		}
	}

	// Malformed leftovers with several dots: the last one is the decimal.
	if strings.Count(work, ".") > 1 {
		last := strings.LastIndexByte(work, '.')
		work = strings.ReplaceAll(work[:last], ".", "") + work[last:]
	}

	if !validNumberRe.MatchString(work) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(work)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseMonetary parses price text into amount and currency. Unparseable text
// yields a zero amount so one bad record cannot abort a batch.
func ParseMonetary(text, currencyHint string) models.ParsedMonetary {
	amount, ok := ExtractAmount(text)
	if !ok {
		amount = decimal.Zero
	}
	return models.ParsedMonetary{
		Amount:   amount,
		Currency: DetectCurrency(text, currencyHint),
		RawText:  text,
		Kind:     models.KindAbsolute,
	}
}

// ParseDiscount parses discount text. A percentage pattern wins and yields a
// percent-kind value; otherwise the text is parsed as an absolute amount with
// the sign forced non-negative ("-₹200" and "Save $50" both deduct).
func ParseDiscount(text, currencyHint string) models.ParsedMonetary {
	if strings.TrimSpace(text) == "" {
		return models.ParsedMonetary{
			Amount:   decimal.Zero,
			Currency: DetectCurrency(text, currencyHint),
			RawText:  text,
			Kind:     models.KindAbsolute,
		}
	}

	if m := percentRe.FindStringSubmatch(text); m != nil {
		numTxt := strings.ReplaceAll(m[1], ",", ".")
		if pct, err := decimal.NewFromString(numTxt); err == nil {
			return models.ParsedMonetary{
				Amount:   round2(pct),
				Currency: "PCT",
				RawText:  text,
				Kind:     models.KindPercent,
			}
		}
	}

	pm := ParseMonetary(text, currencyHint)
	pm.Amount = pm.Amount.Abs()
	return pm
}

// ParseComponents parses base, shipping, tax and discount from a raw record.
// Shipping/tax/discount inherit the base currency when they carry no hint of
// their own.
func ParseComponents(raw models.RawPrice) (base, shipping, tax, discount models.ParsedMonetary) {
	base = ParseMonetary(raw.PriceText, raw.CurrencyHint)

	hint := raw.CurrencyHint
	if hint == "" {
		hint = base.Currency
	}
	shipping = ParseMonetary(raw.ShippingText, hint)
	tax = ParseMonetary(raw.TaxText, hint)
	discount = ParseDiscount(raw.DiscountText, hint)
	return base, shipping, tax, discount
}
