package lod

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonLabel = "reason"

	reasonDistance = "distance"
	reasonBalance  = "balance"
	reasonCorner   = "corner"
)

var (
	lodLeafCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lod_leaf_count",
		Help: "The number of resident leaf chunks.",
	})

	lodSplits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lod_splits_total",
		Help: "The total number of chunk subdivisions.",
	}, []string{
		reasonLabel,
	})

	lodMerges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lod_merges_total",
		Help: "The total number of chunk merges.",
	})

	lodQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lod_queue_length",
		Help: "The number of chunks waiting for work.",
	})

	lodQueueStale = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lod_queue_stale_discarded",
		Help: "The number of superseded queue entries dropped so far.",
	})

	lodUpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "lod_update_duration_seconds",
		Help: "The time spent in one LOD update.",
	})
)

func instrumentSplit(reason string) {
	lodSplits.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

func instrumentMerge() {
	lodMerges.Inc()
}

func instrumentTick(s Stats, seconds float64) {
	lodLeafCount.Set(float64(s.Leaves))
	lodQueueLength.Set(float64(s.Queued))
	lodQueueStale.Set(float64(s.StaleDiscarded))
	lodUpdateDuration.Observe(seconds)
}
