package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScrapesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_scrapes_total",
		Help: "Successful scrapes across all sites",
	})
	ScrapeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_scrape_errors_total",
		Help: "Scrapes that ended in a synthesized error record",
	})
	ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_comparisons_total",
		Help: "Price comparison batches run",
	})
)

// Start exposes /metrics on its own port.
func Start(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, mux)
}
