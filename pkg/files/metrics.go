package files

import (
	m "github.com/FavorLabs/ipsex/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	AddFileCounter    prometheus.Counter
	GetFileCounter    prometheus.Counter
	DeleteFileCounter prometheus.Counter
	AddFileErrors     prometheus.Counter
	GetFileErrors     prometheus.Counter
	DeleteFileErrors  prometheus.Counter
	OrphanedOrders    prometheus.Counter
	DivergedDeletes   prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	LedgerScans       prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "files"

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return metrics{
		AddFileCounter:    counter("add_file_count", "Number of add file operations."),
		GetFileCounter:    counter("get_file_count", "Number of get file operations."),
		DeleteFileCounter: counter("delete_file_count", "Number of delete file operations."),
		AddFileErrors:     counter("add_file_errors", "Number of failed add file operations."),
		GetFileErrors:     counter("get_file_errors", "Number of failed get file operations."),
		DeleteFileErrors:  counter("delete_file_errors", "Number of failed delete file operations."),
		OrphanedOrders:    counter("orphaned_orders", "Orders created on the ledger whose upload failed."),
		DivergedDeletes:   counter("diverged_deletes", "Orders deleted on the ledger whose content removal failed."),
		CacheHits:         counter("order_cache_hits", "Order id lookups served from the cache."),
		CacheMisses:       counter("order_cache_misses", "Order id lookups that missed the cache."),
		LedgerScans:       counter("order_ledger_scans", "Full order list scans issued by the cache."),
	}
}

func (s *Service) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(s.metrics)
}
