package iosearch

import "github.com/prometheus/client_golang/prometheus"

// Metrics of species searches.
type Metrics struct {
	queryCache     *prometheus.CounterVec
	imageCache     *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	duration       prometheus.Histogram
}

// NewMetrics creates search metrics and registers them with reg. Nil
// reg leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	res := &Metrics{
		queryCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gnspecies",
				Name:      "query_cache_total",
				Help:      "Query cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),
		imageCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gnspecies",
				Name:      "image_cache_total",
				Help:      "Image cache lookups by result",
			},
			[]string{"result"},
		),
		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gnspecies",
				Name:      "upstream_errors_total",
				Help:      "Failed requests to upstream providers",
			},
			[]string{"provider"}, // gbif, inat
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "gnspecies",
				Name:      "search_duration_seconds",
				Help:      "Time of species searches",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			res.queryCache, res.imageCache, res.upstreamErrors, res.duration,
		)
	}
	return res
}

func (m *Metrics) cache(vec *prometheus.CounterVec, hit bool) {
	res := "miss"
	if hit {
		res = "hit"
	}
	vec.WithLabelValues(res).Inc()
}
