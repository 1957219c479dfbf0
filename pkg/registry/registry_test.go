package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"scout-base/pkg/models"
)

type stubScraper struct {
	name string
}

func (s *stubScraper) SiteName() string { return s.name }

func (s *stubScraper) Scrape(ctx context.Context, input string) (models.ScrapeRecord, error) {
	return models.ScrapeRecord{Site: s.name}, nil
}

func TestRegisterNoOverwrite(t *testing.T) {
	r := New()

	if !r.Register(&stubScraper{name: "Amazon"}) {
		t.Fatal("first register failed")
	}
	if r.Register(&stubScraper{name: "Amazon"}) {
		t.Error("duplicate register should return false")
	}
	if r.Count() != 1 {
		t.Errorf("count: got %d, want 1", r.Count())
	}
}

func TestUnregister(t *testing.T) {
	r := New()
	r.Register(&stubScraper{name: "Flipkart"})

	if !r.Unregister("Flipkart") {
		t.Error("unregister of present scraper failed")
	}
	if r.Unregister("Flipkart") {
		t.Error("unregister of absent scraper should return false")
	}
	if _, ok := r.Get("Flipkart"); ok {
		t.Error("scraper still resolvable after unregister")
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	r := New()
	r.Register(&stubScraper{name: "A"})
	r.Register(&stubScraper{name: "B"})

	snapshot := r.All()
	r.Unregister("A")
	r.Unregister("B")

	if len(snapshot) != 2 {
		t.Errorf("snapshot should be unaffected by later mutation, got %d entries", len(snapshot))
	}
}

func TestNamesAndClear(t *testing.T) {
	r := New()
	r.Register(&stubScraper{name: "A"})
	r.Register(&stubScraper{name: "B"})

	if got := len(r.Names()); got != 2 {
		t.Errorf("names: got %d, want 2", got)
	}
	r.Clear()
	if r.Count() != 0 {
		t.Errorf("count after clear: got %d", r.Count())
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("site-%d", i)
			r.Register(&stubScraper{name: name})
			r.Get(name)
			r.All()
			r.Unregister(name)
		}(i)
	}
	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("count after churn: got %d, want 0", r.Count())
	}
}
