package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"scout-base/pkg/models"
)

// Context keys the built-in site policies understand. Thresholds and fees are
// specified in the target currency; policies only see normalized amounts.
const (
	CtxFreeShippingThreshold = "free_shipping_threshold"
	CtxCOD                   = "cod"
	CtxCODFee                = "cod_fee"
)

// ApplySitePolicies adjusts an already-normalized price from the raw record's
// free-form context, then recomputes the effective amount with the same
// formula and clamp as Normalize. The input is not modified.
func ApplySitePolicies(site string, np models.NormalizedPrice, context map[string]any) models.NormalizedPrice {
	if len(context) == 0 {
		return np
	}

	breakdown := make(map[string]string, len(np.Breakdown)+2)
	for k, v := range np.Breakdown {
		breakdown[k] = v
	}
	np.Breakdown = breakdown

	if thr, ok := contextAmount(context[CtxFreeShippingThreshold]); ok {
		if np.Base.Amount.GreaterThanOrEqual(thr) && np.Shipping.Amount.IsPositive() {
			np.Shipping = np.Shipping.WithAmount(decimal.Zero)
			breakdown["policy:shipping"] = fmt.Sprintf("Free shipping applied (threshold %s %s)", thr, np.TargetCurrency)
		}
	}

	if cod, _ := context[CtxCOD].(bool); cod {
		if fee, ok := contextAmount(context[CtxCODFee]); ok {
			fee = round2(fee)
			np.Tax = np.Tax.WithAmount(round2(np.Tax.Amount.Add(fee)))
			breakdown["policy:cod"] = fmt.Sprintf("COD fee +%s %s", fee, np.TargetCurrency)
		}
	}

	return recomputeEffective(np)
}

func recomputeEffective(np models.NormalizedPrice) models.NormalizedPrice {
	eff := np.Base.Amount.Sub(np.Discount.Amount).Add(np.Shipping.Amount).Add(np.Tax.Amount)
	if eff.IsNegative() {
		eff = decimal.Zero
	}
	np.Effective = models.ParsedMonetary{
		Amount:   round2(eff),
		Currency: np.TargetCurrency,
		RawText:  "policy",
		Kind:     models.KindAbsolute,
	}
	return np
}

// contextAmount coerces the loosely-typed policy context values (JSON numbers
// decode as float64) into exact decimals.
func contextAmount(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
