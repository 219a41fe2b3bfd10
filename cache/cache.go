// Package cache provides persisted stores for solved Slepian eigenpair
// sets. Both backends satisfy slepian.Cache: Get reports a miss with
// ok == false and a nil error, and Set overwrites.
//
// Lookups are counted in the slepian_cache_requests_total Prometheus
// counter, labelled by backend and result.
package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
	resultOK    = "ok"
)

var (
	// requestsTotal counts lookups by backend and result.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slepian_cache_requests_total",
		Help: "Eigenpair cache lookups by backend and result",
	}, []string{"backend", "result"})

	// writesTotal counts stores by backend and result.
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slepian_cache_writes_total",
		Help: "Eigenpair cache writes by backend and result",
	}, []string{"backend", "result"})

	// bytesWritten tracks the size of stored records.
	bytesWritten = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slepian_cache_record_bytes",
		Help:    "Size of stored eigenpair records in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB to ~256MiB
	}, []string{"backend"})
)

func observeGet(backend string, ok bool, err error) {
	switch {
	case err != nil:
		requestsTotal.WithLabelValues(backend, resultError).Inc()
	case ok:
		requestsTotal.WithLabelValues(backend, resultHit).Inc()
	default:
		requestsTotal.WithLabelValues(backend, resultMiss).Inc()
	}
}

func observeSet(backend string, size int, err error) {
	if err != nil {
		writesTotal.WithLabelValues(backend, resultError).Inc()
		return
	}
	writesTotal.WithLabelValues(backend, resultOK).Inc()
	bytesWritten.WithLabelValues(backend).Observe(float64(size))
}
