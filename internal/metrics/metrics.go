// Package metrics exposes Prometheus collectors for the event pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesFetchedTotal    *prometheus.CounterVec
	pagesFailedTotal     *prometheus.CounterVec
	candidatesTotal      *prometheus.CounterVec
	recordsAdmittedTotal *prometheus.CounterVec
	recordsDroppedTotal  *prometheus.CounterVec
	geocodeLookupsTotal  *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_pages_fetched_total",
				Help: "Total pages fetched successfully, labeled by site.",
			},
			[]string{"site"},
		)

		pagesFailedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_pages_failed_total",
				Help: "Total page fetches that failed after retries, labeled by site.",
			},
			[]string{"site"},
		)

		candidatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_candidates_total",
				Help: "Total raw candidates produced, labeled by extraction method.",
			},
			[]string{"method"},
		)

		recordsAdmittedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_records_admitted_total",
				Help: "Total records admitted into the dataset, labeled by site.",
			},
			[]string{"site"},
		)

		recordsDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_records_dropped_total",
				Help: "Total records dropped during consolidation, labeled by reason.",
			},
			[]string{"reason"},
		)

		geocodeLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_geocode_lookups_total",
				Help: "Total geocoding lookups, labeled by outcome.",
			},
			[]string{"outcome"},
		)
	})
}

// PageFetched records a successful page fetch for site.
func PageFetched(site string) {
	if pagesFetchedTotal != nil {
		pagesFetchedTotal.WithLabelValues(site).Inc()
	}
}

// PageFailed records a page fetch that failed after retries.
func PageFailed(site string) {
	if pagesFailedTotal != nil {
		pagesFailedTotal.WithLabelValues(site).Inc()
	}
}

// Candidates records n raw candidates produced by an extraction method.
func Candidates(method string, n int) {
	if candidatesTotal != nil && n > 0 {
		candidatesTotal.WithLabelValues(method).Add(float64(n))
	}
}

// RecordAdmitted records a record admitted into the dataset.
func RecordAdmitted(site string) {
	if recordsAdmittedTotal != nil {
		recordsAdmittedTotal.WithLabelValues(site).Inc()
	}
}

// RecordDropped records a record dropped during consolidation.
func RecordDropped(reason string) {
	if recordsDroppedTotal != nil {
		recordsDroppedTotal.WithLabelValues(reason).Inc()
	}
}

// GeocodeLookup records a geocoding lookup outcome: hit, miss, cached, or error.
func GeocodeLookup(outcome string) {
	if geocodeLookupsTotal != nil {
		geocodeLookupsTotal.WithLabelValues(outcome).Inc()
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
