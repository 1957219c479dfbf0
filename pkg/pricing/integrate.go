package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"scout-base/pkg/models"
	"scout-base/pkg/observability"
)

// ComparePrices runs the full pipeline over raw rows: normalize each into the
// target currency, apply the site policies its context asks for, rank. The
// result always comes back, possibly empty; bad rows degrade to zero-amount
// offers instead of failing the batch.
func ComparePrices(rows []models.RawPrice, targetCurrency string) models.RankingResult {
	conv := NewConverter(targetCurrency)

	offers := make([]models.ProductOffer, 0, len(rows))
	for i := range rows {
		raw := rows[i]
		norm := Normalize(raw, conv, conv.BaseCurrency)
		norm = ApplySitePolicies(raw.Site, norm, raw.Context)

		offers = append(offers, models.ProductOffer{
			Site:         raw.Site,
			Title:        raw.Title,
			URL:          raw.URL,
			Normalized:   norm,
			Rating:       raw.Rating,
			Reviews:      raw.Reviews,
			DeliveryDays: raw.DeliveryDays,
			HasDelivery:  raw.HasDelivery,
			InStock:      raw.Available(),
			Raw:          &rows[i],
		})
	}

	ranked := Rank(offers)
	result := models.RankingResult{Offers: ranked}
	if len(ranked) > 0 {
		result.Cheapest = &ranked[0]
	}
	observability.ComparisonsTotal.Inc()
	return result
}

// CompareRecords bridges scrape records into the pipeline. Error records are
// skipped; they carry no price to compare.
func CompareRecords(records []models.ScrapeRecord, targetCurrency string) models.RankingResult {
	rows := make([]models.RawPrice, 0, len(records))
	for _, rec := range records {
		if rec.IsError() {
			continue
		}
		rows = append(rows, RawFromRecord(rec))
	}
	return ComparePrices(rows, targetCurrency)
}

var floatRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// RawFromRecord maps the flat adapter record onto the richer pricing input.
// Ratings like "4.3 out of 5" reduce to their leading number; availability
// text decides the in-stock flag.
func RawFromRecord(rec models.ScrapeRecord) models.RawPrice {
	inStock := inStockFromAvailability(rec.Availability)
	raw := models.RawPrice{
		Site:      rec.Site,
		Title:     rec.Title,
		URL:       rec.Link,
		PriceText: rec.Price,
		InStock:   &inStock,
	}
	if m := floatRe.FindString(rec.Rating); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			raw.Rating = v
		}
	}
	return raw
}

func inStockFromAvailability(availability string) bool {
	a := strings.ToLower(strings.TrimSpace(availability))
	switch {
	case a == "" || a == "n/a":
		return true
	case strings.Contains(a, "out of stock"),
		strings.Contains(a, "unavailable"),
		strings.Contains(a, "sold out"),
		strings.Contains(a, "error"):
		return false
	}
	return true
}
