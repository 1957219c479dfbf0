package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"scout-base/pkg/models"
)

// Normalize parses a raw record's monetary components, converts them all into
// the target currency and computes the effective price:
//
//	effective = max(0, base - discount + shipping + tax)
//
// Percent discounts are taken as a fraction of the pre-conversion base, then
// converted. Swapping that basis changes outcomes for non-1:1 rates, so it is
// pinned here and in the tests.
func Normalize(raw models.RawPrice, conv *Converter, targetCurrency string) models.NormalizedPrice {
	if targetCurrency == "" {
		targetCurrency = conv.BaseCurrency
	}

	base, shipping, tax, discount := ParseComponents(raw)

	baseT := toTarget(base, conv, targetCurrency)

	if discount.Kind == models.KindPercent {
		abs := round2(base.Amount.Mul(discount.Amount.Div(decimal.NewFromInt(100))))
		discount.Amount = abs
		discount.Currency = base.Currency
		discount.Kind = models.KindAbsolute
	}
	discountT := toTarget(discount, conv, targetCurrency)
	shippingT := toTarget(shipping, conv, targetCurrency)
	taxT := toTarget(tax, conv, targetCurrency)

	effAmt := baseT.Amount.Sub(discountT.Amount).Add(shippingT.Amount).Add(taxT.Amount)
	if effAmt.IsNegative() {
		effAmt = decimal.Zero
	}
	effective := models.ParsedMonetary{
		Amount:   round2(effAmt),
		Currency: targetCurrency,
		RawText:  "computed",
		Kind:     models.KindAbsolute,
	}

	breakdown := map[string]string{
		"base":     auditLine("Base", base, baseT, targetCurrency),
		"discount": auditLine("Discount", discount, discountT, targetCurrency),
		"shipping": auditLine("Shipping", shipping, shippingT, targetCurrency),
		"tax":      auditLine("Tax", tax, taxT, targetCurrency),
		"formula":  "effective = base - discount + shipping + tax",
	}

	return models.NormalizedPrice{
		Base:           baseT,
		Shipping:       shippingT,
		Tax:            taxT,
		Discount:       discountT,
		Effective:      effective,
		TargetCurrency: targetCurrency,
		Breakdown:      breakdown,
	}
}

func toTarget(pm models.ParsedMonetary, conv *Converter, target string) models.ParsedMonetary {
	pm.Amount = conv.Convert(pm.Amount, pm.Currency, target)
	pm.Currency = target
	return pm
}

func auditLine(label string, before, after models.ParsedMonetary, target string) string {
	return fmt.Sprintf("%s %s %s -> %s %s", label, before.Amount, before.Currency, after.Amount, target)
}
