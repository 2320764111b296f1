package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitmatch_analyses_total",
			Help: "Total number of analysis requests by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitmatch_analysis_errors_total",
			Help: "Total number of failed analyses by error code",
		},
		[]string{"code"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitmatch_extractions_total",
			Help: "Decoder attempts by decoder and result",
		},
		[]string{"decoder", "result"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitmatch_backend_duration_seconds",
			Help:    "Duration of generation backend calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fitmatch_match_score",
			Help:    "Distribution of overall match scores returned to callers",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)
