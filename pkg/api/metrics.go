package api

import (
	"github.com/FavorLabs/ipsex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func newMetricsRegistry() (r *prometheus.Registry) {
	r = prometheus.NewRegistry()

	// register standard metrics
	r.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
			Namespace: "ipsex",
		}),
		collectors.NewGoCollector(),
		prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipsex",
			Name:      "info",
			Help:      "ipsex information.",
			ConstLabels: prometheus.Labels{
				"version": ipsex.Version,
			},
		}),
	)

	return r
}
