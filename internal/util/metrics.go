package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutSessionsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of checkout sessions created",
	}, []string{"provider"})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout requests",
	}, []string{"reason"})

	ProviderRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_latency_seconds",
		Help:    "Latency of payment provider session creation",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	CatalogReplacementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_replacements_total",
		Help: "Total number of admin catalog replacements",
	})

	CatalogCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog cache lookups by outcome",
	}, []string{"outcome"})

	CurrencyConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_conversions_total",
		Help: "Display currency conversions by outcome",
	}, []string{"outcome"})

	AdminLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_logins_total",
		Help: "Admin login attempts by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
