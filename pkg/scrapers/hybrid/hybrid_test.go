package hybrid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scout-base/pkg/models"
)

type fakeScraper struct {
	site  string
	rec   models.ScrapeRecord
	err   error
	calls int
}

func (f *fakeScraper) SiteName() string { return f.site }

func (f *fakeScraper) Scrape(_ context.Context, _ string) (models.ScrapeRecord, error) {
	f.calls++
	return f.rec, f.err
}

func goodRecord(site string) models.ScrapeRecord {
	return models.ScrapeRecord{
		Site:         site,
		Title:        "Widget Deluxe",
		Price:        "₹999",
		Rating:       "4.5",
		Availability: "In Stock",
		Link:         "https://example.com/widget",
	}
}

func TestStaticSufficientSkipsBrowser(t *testing.T) {
	static := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}
	browser := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}

	rec, err := New(static, browser).Scrape(context.Background(), "widget")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if rec.Title != "Widget Deluxe" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if browser.calls != 0 {
		t.Errorf("browser should not run when static suffices, ran %d times", browser.calls)
	}
}

func TestFallbackOnStaticError(t *testing.T) {
	static := &fakeScraper{site: "Shop", err: errors.New("blocked")}
	browser := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}

	rec, err := New(static, browser).Scrape(context.Background(), "widget")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if rec.Title != "Widget Deluxe" {
		t.Errorf("expected browser record, got %+v", rec)
	}
	if browser.calls != 1 {
		t.Errorf("browser calls: got %d, want 1", browser.calls)
	}
}

func TestFallbackOnBotWallTitle(t *testing.T) {
	blocked := goodRecord("Shop")
	blocked.Title = "Robot or human? Access Denied"

	static := &fakeScraper{site: "Shop", rec: blocked}
	browser := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}

	rec, err := New(static, browser).Scrape(context.Background(), "widget")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if rec.Title != "Widget Deluxe" {
		t.Errorf("expected browser record, got %+v", rec)
	}
}

func TestCustomPredicate(t *testing.T) {
	static := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}
	browser := &fakeScraper{site: "Shop", rec: goodRecord("Shop")}

	s := New(static, browser)
	s.NeedsBrowser = func(models.ScrapeRecord) bool { return true }

	if _, err := s.Scrape(context.Background(), "widget"); err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if browser.calls != 1 {
		t.Errorf("custom predicate should force the browser, ran %d times", browser.calls)
	}
}

func TestBothFail(t *testing.T) {
	static := &fakeScraper{site: "Shop", err: errors.New("connection reset")}
	browser := &fakeScraper{site: "Shop", err: errors.New("chrome crashed")}

	_, err := New(static, browser).Scrape(context.Background(), "widget")
	if err == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(err.Error(), "connection reset") || !strings.Contains(err.Error(), "chrome crashed") {
		t.Errorf("error should mention both causes, got %q", err)
	}
}

func TestDegradedStaticKeptWhenBrowserFails(t *testing.T) {
	degraded := goodRecord("Shop")
	degraded.Rating = "N/A"
	degraded.Title = "Loading..."

	static := &fakeScraper{site: "Shop", rec: degraded}
	browser := &fakeScraper{site: "Shop", err: errors.New("chrome crashed")}

	rec, err := New(static, browser).Scrape(context.Background(), "widget")
	if err != nil {
		t.Fatalf("degraded static record should be kept, got error %v", err)
	}
	if rec.Title != "Loading..." {
		t.Errorf("expected the static record back, got %+v", rec)
	}
}

func TestNoBrowserConfigured(t *testing.T) {
	static := &fakeScraper{site: "Shop", err: errors.New("blocked")}

	_, err := New(static, nil).Scrape(context.Background(), "widget")
	if err == nil || !strings.Contains(err.Error(), "blocked") {
		t.Errorf("static error should surface unchanged, got %v", err)
	}
}

func TestDefaultNeedsBrowser(t *testing.T) {
	cases := []struct {
		name string
		rec  models.ScrapeRecord
		want bool
	}{
		{"complete record", goodRecord("Shop"), false},
		{"error record", models.ErrorRecord("Shop", "boom"), true},
		{"missing price", models.ScrapeRecord{Site: "Shop", Title: "Widget"}, true},
		{"placeholder title", func() models.ScrapeRecord {
			r := goodRecord("Shop")
			r.Title = "Please wait..."
			return r
		}(), true},
	}
	for _, tc := range cases {
		if got := DefaultNeedsBrowser(tc.rec); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
