// Package metrics provides the centralized Prometheus metrics registry for
// the win-probability service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "provider_requests_total",
		Help:      "Total number of data provider requests",
	}, []string{"endpoint", "outcome"})
	TeamFetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "team_fetch_failures_total",
		Help:      "Total number of per-team season fetches that failed and were excluded",
	})
	EstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "estimates_total",
		Help:      "Total number of probability estimates produced, by basis",
	}, []string{"basis"})
	SeasonCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "season_cache_hits_total",
		Help:      "Total number of season cache hits, by cache",
	}, []string{"cache"})
	SeasonCacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "season_cache_misses_total",
		Help:      "Total number of season cache misses, by cache",
	}, []string{"cache"})
	FreezesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "freezes_total",
		Help:      "Total number of estimates frozen at the freeze instant",
	})
)

// Gauge metrics
var (
	DirectoryTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "directory_teams",
		Help:      "Number of teams resolved in the team directory",
	})
	LiveSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "live_subscriptions",
		Help:      "Number of games currently in the live refresh state",
	})
)

// Histogram metrics
var (
	RatingFitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "rating_fit_duration_seconds",
		Help:      "Duration of season rating fits in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	SeasonFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "season_fetch_duration_seconds",
		Help:      "Duration of full season finals fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(TeamFetchFailuresTotal)
		registry.MustRegister(EstimatesTotal)
		registry.MustRegister(SeasonCacheHitsTotal)
		registry.MustRegister(SeasonCacheMissesTotal)
		registry.MustRegister(FreezesTotal)

		registry.MustRegister(DirectoryTeams)
		registry.MustRegister(LiveSubscriptions)

		registry.MustRegister(RatingFitDuration)
		registry.MustRegister(SeasonFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordProviderRequest records one provider request outcome.
func RecordProviderRequest(endpoint, outcome string) {
	ProviderRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordTeamFetchFailure records a swallowed per-team fetch failure.
func RecordTeamFetchFailure() {
	TeamFetchFailuresTotal.Inc()
}

// RecordEstimate records an estimate by its basis.
func RecordEstimate(basis string) {
	EstimatesTotal.WithLabelValues(basis).Inc()
}

// RecordCacheHit records a season cache hit.
func RecordCacheHit(cache string) {
	SeasonCacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a season cache miss.
func RecordCacheMiss(cache string) {
	SeasonCacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordFreeze records one estimate freeze.
func RecordFreeze() {
	FreezesTotal.Inc()
}

// RecordRatingFit records the duration of a season rating fit.
func RecordRatingFit(durationSeconds float64) {
	RatingFitDuration.Observe(durationSeconds)
}

// RecordSeasonFetch records the duration of a full season finals fetch.
func RecordSeasonFetch(durationSeconds float64) {
	SeasonFetchDuration.Observe(durationSeconds)
}
