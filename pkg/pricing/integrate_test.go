package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"scout-base/pkg/models"
)

func TestComparePrices(t *testing.T) {
	rows := []models.RawPrice{
		{Site: "Amazon", Title: "Widget", PriceText: "₹1,000", CurrencyHint: "INR"},
		{Site: "Flipkart", Title: "Widget", PriceText: "₹950"},
		{Site: "Croma", Title: "Widget", PriceText: "₹980", DiscountText: "₹100 off"},
	}

	result := ComparePrices(rows, "INR")
	if len(result.Offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(result.Offers))
	}
	if result.Cheapest == nil {
		t.Fatal("expected a cheapest offer")
	}
	// Croma nets out at 880 after discount.
	if result.Cheapest.Site != "Croma" {
		t.Errorf("cheapest: got %s, want Croma", result.Cheapest.Site)
	}
	want := decimal.RequireFromString("880.00")
	if !result.Cheapest.Normalized.Effective.Amount.Equal(want) {
		t.Errorf("cheapest effective: got %s, want %s", result.Cheapest.Normalized.Effective.Amount, want)
	}
	// Raw back-reference survives the pipeline.
	if result.Cheapest.Raw == nil || result.Cheapest.Raw.Site != "Croma" {
		t.Error("cheapest offer lost its raw back-reference")
	}
}

func TestComparePricesStockDefaultsTrue(t *testing.T) {
	outOfStock := false
	rows := []models.RawPrice{
		{Site: "NoFlag", PriceText: "₹100"},
		{Site: "Explicit", PriceText: "₹100", InStock: &outOfStock},
	}

	result := ComparePrices(rows, "INR")
	for _, offer := range result.Offers {
		switch offer.Site {
		case "NoFlag":
			if !offer.InStock {
				t.Error("offer without a stock flag should count as in stock")
			}
		case "Explicit":
			if offer.InStock {
				t.Error("explicit out-of-stock flag was ignored")
			}
		}
	}
	// The default also decides ranking: equal prices, the unflagged row wins.
	if result.Cheapest.Site != "NoFlag" {
		t.Errorf("cheapest: got %s, want NoFlag", result.Cheapest.Site)
	}
}

func TestRawPriceStockDefaultFromJSON(t *testing.T) {
	var raw models.RawPrice
	if err := json.Unmarshal([]byte(`{"site":"J","price_text":"₹100"}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !raw.Available() {
		t.Error("row omitting in_stock should default to available")
	}

	if err := json.Unmarshal([]byte(`{"site":"J","price_text":"₹100","in_stock":false}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw.Available() {
		t.Error("explicit in_stock false was lost")
	}
}

func TestComparePricesEmpty(t *testing.T) {
	result := ComparePrices(nil, "INR")
	if len(result.Offers) != 0 {
		t.Errorf("expected no offers, got %d", len(result.Offers))
	}
	if result.Cheapest != nil {
		t.Error("cheapest should be nil for empty input")
	}
}

func TestComparePricesBadRowDegrades(t *testing.T) {
	rows := []models.RawPrice{
		{Site: "Good", PriceText: "₹500"},
		{Site: "Bad", PriceText: "call for price"},
	}
	result := ComparePrices(rows, "INR")
	if len(result.Offers) != 2 {
		t.Fatalf("bad row dropped; got %d offers", len(result.Offers))
	}
	// Unparseable rows sort first at zero rather than failing the batch.
	if result.Cheapest.Site != "Bad" || !result.Cheapest.Normalized.Effective.Amount.IsZero() {
		t.Errorf("unexpected cheapest: %s %s", result.Cheapest.Site, result.Cheapest.Normalized.Effective.Amount)
	}
}

func TestCompareRecordsSkipsErrors(t *testing.T) {
	records := []models.ScrapeRecord{
		{Site: "Amazon", Title: "Widget", Price: "₹999", Rating: "4.3 out of 5", Availability: "In Stock", Link: "https://example.com/w"},
		models.ErrorRecord("Flipkart", "Timeout after 10s"),
	}

	result := CompareRecords(records, "INR")
	if len(result.Offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(result.Offers))
	}
	if result.Offers[0].Rating != 4.3 {
		t.Errorf("rating: got %v, want 4.3", result.Offers[0].Rating)
	}
}

func TestRawFromRecordAvailability(t *testing.T) {
	tests := []struct {
		availability string
		want         bool
	}{
		{"In Stock", true},
		{"Currently unavailable", false},
		{"Out of Stock", false},
		{"Sold Out", false},
		{"N/A", true},
		{"", true},
	}
	for _, tt := range tests {
		rec := models.ScrapeRecord{Site: "X", Availability: tt.availability}
		if got := RawFromRecord(rec).Available(); got != tt.want {
			t.Errorf("availability %q: got %v, want %v", tt.availability, got, tt.want)
		}
	}
}
