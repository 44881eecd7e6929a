package osc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters an endpoint can report. Attach one
// to a Server via its Metrics field or to a Client via WithMetrics; both
// sides can share a single Metrics value.
type Metrics struct {
	PacketsReceived    prometheus.Counter
	BytesReceived      prometheus.Counter
	ParseErrors        prometheus.Counter
	MessagesDispatched prometheus.Counter
	PacketsSent        prometheus.Counter
	BytesSent          prometheus.Counter
}

// NewMetrics creates and registers the OSC counters on the given registry.
// A nil registry means prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		PacketsReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "packets_received_total",
			Help:      "Number of UDP datagrams received.",
		}),
		BytesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "bytes_received_total",
			Help:      "Number of payload bytes received.",
		}),
		ParseErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "parse_errors_total",
			Help:      "Number of received datagrams dropped as malformed.",
		}),
		MessagesDispatched: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "messages_dispatched_total",
			Help:      "Number of messages handed to the dispatcher.",
		}),
		PacketsSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "packets_sent_total",
			Help:      "Number of UDP datagrams sent.",
		}),
		BytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Name:      "bytes_sent_total",
			Help:      "Number of payload bytes sent.",
		}),
	}
}
