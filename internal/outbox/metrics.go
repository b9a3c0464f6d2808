package outbox

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "outbox",
		Name:      "events_delivered_total",
		Help:      "Number of signup events successfully published to Kafka.",
	})

	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "outbox",
		Name:      "events_failed_total",
		Help:      "Number of signup events whose Kafka delivery failed.",
	})

	droppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "outbox",
		Name:      "events_dropped_total",
		Help:      "Number of signup events rejected because the outbox buffer was full.",
	})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activity_signup",
		Subsystem: "outbox",
		Name:      "queue_depth",
		Help:      "Signup events waiting for delivery.",
	})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "activity_signup",
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Time spent encoding and delivering outbox batches.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter, droppedCounter, queueDepth, batchDuration)
}
