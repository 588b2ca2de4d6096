// internal/services/metrics.go
package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nft_collection_operations_total",
			Help: "Total number of collection operations",
		},
		[]string{"operation", "status"},
	)

	nftOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nft_operations_total",
			Help: "Total number of mint and list operations",
		},
		[]string{"operation", "status"},
	)

	minterCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nft_minter_call_duration_seconds",
			Help:    "Minting service call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// 0 closed, 1 half-open, 2 open
	minterBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nft_minter_circuit_breaker_state",
			Help: "Minting service circuit breaker state",
		},
		[]string{"name"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
