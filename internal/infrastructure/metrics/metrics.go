package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Memory Locker Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "locker",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Total media uploads",
		},
		[]string{"kind", "status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"kind"},
	)

	// Record store document operations
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Record store document operations",
		},
		[]string{"collection", "operation", "status"},
	)

	// Corrupt collection documents detected on load. A non-zero value means
	// readers were served an empty collection in place of stored records.
	CorruptDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "store",
			Name:      "corrupt_documents_total",
			Help:      "Collection documents that failed to parse on load",
		},
		[]string{"collection"},
	)

	// Blob store operations counter
	BlobOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locker",
			Subsystem: "blob",
			Name:      "operations_total",
			Help:      "Blob store operations",
		},
		[]string{"operation", "status"},
	)
)
