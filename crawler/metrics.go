package crawler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl pipeline.
type Metrics struct {
	Registry              *prometheus.Registry
	FetchesTotal          *prometheus.CounterVec
	FetchDuration         prometheus.Histogram
	AuthorsProcessedTotal prometheus.Counter
	URLsCollectedTotal    prometheus.Counter
	DocumentsSavedTotal   prometheus.Counter
	DocumentsSkippedTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_fetches_total",
			Help: "Total fetch attempts by classified outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_fetch_duration_seconds",
			Help:    "Latency of governed fetches, delay included.",
			Buckets: prometheus.DefBuckets,
		},
	)
	authorsProcessed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_authors_processed_total",
			Help: "Author works-list pages processed during collection.",
		},
	)
	urlsCollected := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_urls_collected_total",
			Help: "Unique text-page URLs added to the collection list.",
		},
	)
	documentsSaved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_documents_saved_total",
			Help: "Documents persisted to the corpus store.",
		},
	)
	documentsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_documents_skipped_total",
			Help: "Download-phase skips by reason.",
		},
		[]string{"reason"},
	)

	registry.MustRegister(fetches, fetchDuration, authorsProcessed, urlsCollected, documentsSaved, documentsSkipped)

	return &Metrics{
		Registry:              registry,
		FetchesTotal:          fetches,
		FetchDuration:         fetchDuration,
		AuthorsProcessedTotal: authorsProcessed,
		URLsCollectedTotal:    urlsCollected,
		DocumentsSavedTotal:   documentsSaved,
		DocumentsSkippedTotal: documentsSkipped,
	}
}

// IncFetch counts one classified fetch attempt.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchDuration records the wall time of one fetch.
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncAuthors counts one processed author works-list page.
func (m *Metrics) IncAuthors() {
	if m == nil {
		return
	}
	m.AuthorsProcessedTotal.Inc()
}

// IncCollected counts one URL added to the collection list.
func (m *Metrics) IncCollected() {
	if m == nil {
		return
	}
	m.URLsCollectedTotal.Inc()
}

// IncSaved counts one persisted document.
func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.DocumentsSavedTotal.Inc()
}

// IncSkipped counts one download-phase skip for a reason label.
func (m *Metrics) IncSkipped(reason string) {
	if m == nil {
		return
	}
	m.DocumentsSkippedTotal.WithLabelValues(reason).Inc()
}
