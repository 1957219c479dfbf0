package cache

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"scout-base/pkg/models"
)

// Cache stores scrape results per (site, query) with a TTL, so repeated
// searches within the window skip the network entirely.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scrape_results (
			site TEXT NOT NULL,
			query TEXT NOT NULL,
			data TEXT NOT NULL,
			scraped_at DATETIME NOT NULL,
			PRIMARY KEY (site, query)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, ttl: ttl}, nil
}

func (c *Cache) Get(site, query string) (models.ScrapeRecord, bool) {
	var data string
	var scrapedAt time.Time

	err := c.db.QueryRow(
		`SELECT data, scraped_at FROM scrape_results WHERE site = ? AND query = ?`,
		site, query,
	).Scan(&data, &scrapedAt)

	if err != nil {
		return models.ScrapeRecord{}, false
	}

	if time.Since(scrapedAt) > c.ttl {
		return models.ScrapeRecord{}, false
	}

	var rec models.ScrapeRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		log.Printf("Cache: failed to unmarshal record %s/%s: %v", site, query, err)
		return models.ScrapeRecord{}, false
	}

	return rec, true
}

func (c *Cache) Set(site, query string, rec models.ScrapeRecord) {
	// Error records are never cached; the next search should retry the site.
	if rec.IsError() {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("Cache: failed to marshal record %s/%s: %v", site, query, err)
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO scrape_results (site, query, data, scraped_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(site, query)
		 DO UPDATE SET data = excluded.data, scraped_at = excluded.scraped_at`,
		site, query, string(data), time.Now(),
	)
	if err != nil {
		log.Printf("Cache: failed to store record %s/%s: %v", site, query, err)
	}
}

func (c *Cache) Close() error {
	return c.db.Close()
}
