package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricExtract = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyplan_extract_total",
			Help: "On-demand page extractions by result: ok, error.",
		},
		[]string{"result"},
	)
	metricExtractDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studyplan_extract_duration_seconds",
			Help:    "Duration of on-demand page extractions.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	metricItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studyplan_items",
			Help: "Items retained by the most recent extraction.",
		},
	)
)
