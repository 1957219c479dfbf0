// Package registry keeps the catalog of available site scrapers. Mutations
// are rare next to lookups, so a single mutex is enough.
package registry

import (
	"sync"

	"scout-base/pkg/models"
)

type Registry struct {
	mu       sync.Mutex
	scrapers map[string]models.Scraper
}

func New() *Registry {
	return &Registry{scrapers: make(map[string]models.Scraper)}
}

// Register adds a scraper under its site name. Returns false when a scraper
// with that name is already present; it never overwrites silently.
func (r *Registry) Register(s models.Scraper) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.SiteName()
	if _, exists := r.scrapers[name]; exists {
		return false
	}
	r.scrapers[name] = s
	return true
}

// Unregister removes the scraper for a site. Returns false when absent.
func (r *Registry) Unregister(siteName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scrapers[siteName]; !exists {
		return false
	}
	delete(r.scrapers, siteName)
	return true
}

// Get looks up the scraper for a site.
func (r *Registry) Get(siteName string) (models.Scraper, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scrapers[siteName]
	return s, ok
}

// All returns a snapshot of the registered scrapers. Callers can iterate it
// while the registry keeps changing.
func (r *Registry) All() []models.Scraper {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Scraper, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		out = append(out, s)
	}
	return out
}

// Names returns a snapshot of the registered site names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		out = append(out, name)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scrapers)
}

// Clear drops every registered scraper.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers = make(map[string]models.Scraper)
}
