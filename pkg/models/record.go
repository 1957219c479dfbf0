package models

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSiteNotFound    = errors.New("site not registered")
)

// ScrapeRecord is the flat result every adapter returns. Error records share
// the same shape so downstream code only has to check the Error field.
type ScrapeRecord struct {
	Site         string `json:"site"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	Rating       string `json:"rating"`
	Availability string `json:"availability"`
	Link         string `json:"link"`
	Error        string `json:"error,omitempty"`
}

// Valid reports whether the record carries every required field.
func (r ScrapeRecord) Valid() bool {
	return r.Site != "" && r.Title != "" && r.Price != "" &&
		r.Rating != "" && r.Availability != "" && r.Link != ""
}

// IsError reports whether the record is a synthesized failure marker.
func (r ScrapeRecord) IsError() bool {
	return r.Error != ""
}

// ErrorRecord builds the standardized failure record for a site.
func ErrorRecord(site, message string) ScrapeRecord {
	return ScrapeRecord{
		Site:         site,
		Title:        "Error",
		Price:        "N/A",
		Rating:       "N/A",
		Availability: "Error",
		Link:         "#",
		Error:        message,
	}
}

// Scraper is the per-site capability the orchestrator drives. Implementations
// must honor ctx cancellation; the orchestrator additionally bounds them with
// its own timeouts.
type Scraper interface {
	SiteName() string
	Scrape(ctx context.Context, input string) (ScrapeRecord, error)
}
