// Package metrics collects and exposes Prometheus metrics for upstream API
// usage and refresh activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records dashboard activity counters.
type Collector struct {
	apiCalls      *prometheus.CounterVec
	channelFails  prometheus.Counter
	refreshes     *prometheus.CounterVec
	fetchLatency  prometheus.Histogram
	videosFetched prometheus.Counter
}

// NewCollector registers the collectors on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cycle_youtube_api_calls_total",
			Help: "Upstream YouTube Data API calls, by endpoint.",
		}, []string{"endpoint"}),
		channelFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cycle_channel_fetch_failures_total",
			Help: "Per-channel fetch pipelines that failed and were recovered.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cycle_refreshes_total",
			Help: "Refresh passes, by outcome (performed, skipped, failed).",
		}, []string{"outcome"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cycle_fetch_latency_seconds",
			Help:    "Latency of aggregate recent-video fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		videosFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cycle_videos_fetched_total",
			Help: "Videos returned by aggregate fetches.",
		}),
	}
	reg.MustRegister(c.apiCalls, c.channelFails, c.refreshes, c.fetchLatency, c.videosFetched)
	return c
}

func (c *Collector) RecordAPICall(endpoint string) {
	c.apiCalls.WithLabelValues(endpoint).Inc()
}

func (c *Collector) RecordChannelFetchFailure() {
	c.channelFails.Inc()
}

func (c *Collector) RecordRefresh(outcome string) {
	c.refreshes.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordFetchLatency(d time.Duration) {
	c.fetchLatency.Observe(d.Seconds())
}

func (c *Collector) RecordVideosFetched(n int) {
	c.videosFetched.Add(float64(n))
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
