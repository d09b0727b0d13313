// Package metrics exposes Prometheus collectors for the analyzer service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal           *prometheus.CounterVec
	fetchesTotal            *prometheus.CounterVec
	postsScoredTotal        prometheus.Counter
	analysisDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init registers the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		analysesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogrank_analyses_total",
				Help: "Total number of blog analyses, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogrank_fetches_total",
				Help: "Total number of page fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		postsScoredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "blogrank_posts_scored_total",
				Help: "Total number of posts successfully scored.",
			},
		)

		analysisDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blogrank_analysis_duration_seconds",
				Help:    "End-to-end duration of one blog analysis.",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
		)
	})
}

// RecordAnalysis increments the analysis counter for one outcome.
func RecordAnalysis(outcome string) {
	if analysesTotal != nil {
		analysesTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordFetch increments the fetch counter for one outcome.
func RecordFetch(outcome string) {
	if fetchesTotal != nil {
		fetchesTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordPostsScored adds n to the scored-post counter.
func RecordPostsScored(n int) {
	if postsScoredTotal != nil && n > 0 {
		postsScoredTotal.Add(float64(n))
	}
}

// ObserveAnalysisDuration records the wall time of one analysis.
func ObserveAnalysisDuration(d time.Duration) {
	if analysisDurationSeconds != nil {
		analysisDurationSeconds.Observe(d.Seconds())
	}
}

// Handler serves the default registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
