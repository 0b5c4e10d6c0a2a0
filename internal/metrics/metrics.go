package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors for the scraper service on a
// dedicated registry.
type Metrics struct {
	Registry           *prometheus.Registry
	ScrapesTotal       *prometheus.CounterVec
	ScrapeDuration     prometheus.Histogram
	FetchAttemptsTotal prometheus.Counter
	BlockedTotal       prometheus.Counter
	RateLimitedTotal   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_scrapes_total",
			Help: "Total scrape requests by outcome code.",
		},
		[]string{"outcome"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_scrape_duration_seconds",
			Help:    "End-to-end duration of orchestrated scrapes.",
			Buckets: prometheus.DefBuckets,
		},
	)
	attempts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_fetch_attempts_total",
			Help: "Total upstream fetch attempts, including retries.",
		},
	)
	blocked := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_blocked_responses_total",
			Help: "Total upstream responses classified as blocked.",
		},
	)
	rateLimited := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_rate_limited_requests_total",
			Help: "Total inbound requests rejected by the rate limiter.",
		},
	)

	registry.MustRegister(scrapes, duration, attempts, blocked, rateLimited)

	return &Metrics{
		Registry:           registry,
		ScrapesTotal:       scrapes,
		ScrapeDuration:     duration,
		FetchAttemptsTotal: attempts,
		BlockedTotal:       blocked,
		RateLimitedTotal:   rateLimited,
	}
}

// IncScrape counts one finished scrape under its outcome code.
func (m *Metrics) IncScrape(outcome string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(outcome).Inc()
}

// ObserveScrapeDuration records an end-to-end scrape duration.
func (m *Metrics) ObserveScrapeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}

// IncFetchAttempt counts one upstream request attempt.
func (m *Metrics) IncFetchAttempt() {
	if m == nil {
		return
	}
	m.FetchAttemptsTotal.Inc()
}

// IncBlocked counts one blocked upstream response.
func (m *Metrics) IncBlocked() {
	if m == nil {
		return
	}
	m.BlockedTotal.Inc()
}

// IncRateLimited counts one inbound request rejected with 429.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
