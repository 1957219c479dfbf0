package models

import "github.com/shopspring/decimal"

// Monetary kinds. Percent only ever appears on intermediate discount values.
const (
	KindAbsolute = "absolute"
	KindPercent  = "percent"
)

// UnknownCurrency marks text where no currency symbol or code was detected.
const UnknownCurrency = "UNK"

// RawPrice carries the as-scraped inputs for one offer. Text fields are messy
// by design; the pricing parser deals with them. Built once, never mutated.
type RawPrice struct {
	Site         string  `json:"site"`
	PriceText    string  `json:"price_text"`
	CurrencyHint string  `json:"currency_hint,omitempty"`
	ShippingText string  `json:"shipping_text,omitempty"`
	TaxText      string  `json:"tax_text,omitempty"`
	DiscountText string  `json:"discount_text,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Reviews      int     `json:"reviews,omitempty"`
	DeliveryDays int     `json:"delivery_days,omitempty"`
	HasDelivery  bool    `json:"has_delivery,omitempty"`
	Title        string  `json:"title,omitempty"`
	URL          string  `json:"url,omitempty"`

	// InStock is tri-state: nil means the source never said, which counts
	// as in stock. Use Available to read it.
	InStock *bool `json:"in_stock,omitempty"`

	// Context feeds the site policy hooks (thresholds, COD fees).
	Context map[string]any `json:"context,omitempty"`
}

// Available resolves the in-stock flag, defaulting to true when unset.
func (r RawPrice) Available() bool {
	return r.InStock == nil || *r.InStock
}

// ParsedMonetary is a parsed money-like value. Amount uses decimal so price
// comparison stays exact; money never touches float64.
type ParsedMonetary struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	RawText  string          `json:"raw_text,omitempty"`
	Kind     string          `json:"kind"`
	Notes    []string        `json:"notes,omitempty"`
}

// WithAmount returns a copy with the amount replaced.
func (p ParsedMonetary) WithAmount(a decimal.Decimal) ParsedMonetary {
	p.Amount = a
	return p
}

// NormalizedPrice holds every component converted into one target currency.
// effective = max(0, base - discount + shipping + tax), bankers-rounded to 2dp.
type NormalizedPrice struct {
	Base           ParsedMonetary    `json:"base"`
	Shipping       ParsedMonetary    `json:"shipping"`
	Tax            ParsedMonetary    `json:"tax"`
	Discount       ParsedMonetary    `json:"discount"`
	Effective      ParsedMonetary    `json:"effective"`
	TargetCurrency string            `json:"target_currency"`
	Breakdown      map[string]string `json:"breakdown,omitempty"`
}

// ProductOffer is one site's comparable offer, ready for ranking.
type ProductOffer struct {
	Site         string          `json:"site"`
	Title        string          `json:"title,omitempty"`
	URL          string          `json:"url,omitempty"`
	Normalized   NormalizedPrice `json:"normalized"`
	Rating       float64         `json:"rating,omitempty"`
	Reviews      int             `json:"reviews,omitempty"`
	DeliveryDays int             `json:"delivery_days,omitempty"`
	HasDelivery  bool            `json:"has_delivery,omitempty"`
	InStock      bool            `json:"in_stock"`

	// Originating raw record, kept for traceability.
	Raw *RawPrice `json:"-"`
}

// RankingResult is the ordered offer list plus the cheapest entry, nil when
// the input was empty.
type RankingResult struct {
	Offers   []ProductOffer `json:"offers"`
	Cheapest *ProductOffer  `json:"cheapest,omitempty"`
}
