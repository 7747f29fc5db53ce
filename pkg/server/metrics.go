package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partfinder_searches_total",
		Help: "The total number of result reads",
	})
	noFilterChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partfinder_filter_changes_total",
		Help: "The total number of applied filter mutations",
	})
	noSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partfinder_sessions_total",
		Help: "The total number of created browsing sessions",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "partfinder_sessions_active",
		Help: "The number of live browsing sessions",
	})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partfinder_request_duration_seconds",
		Help:    "Api request handling time",
		Buckets: prometheus.DefBuckets,
	}, []string{"pattern"})
)
