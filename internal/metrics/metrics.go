// Package metrics exposes Prometheus counters for handshakes and the relay.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clip"

// Metrics holds the collectors registered by New.
type Metrics struct {
	framesDecoded prometheus.Counter
	globalsSeen   prometheus.Counter
	compactions   prometheus.Counter
	bytesRead     prometheus.Counter
	bytesWritten  prometheus.Counter
	resolutions   *prometheus.CounterVec

	relayStreams *prometheus.CounterVec
	relayActive  prometheus.Gauge
	relayBytes   *prometheus.CounterVec
}

// New registers all collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		framesDecoded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "frames_decoded_total",
			Help: "Complete frames taken from the read buffer.",
		}),
		globalsSeen: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "globals_seen_total",
			Help: "Registry global events decoded.",
		}),
		compactions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "buffer_compactions_total",
			Help: "Read buffer compactions that moved a partial frame.",
		}),
		bytesRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "read_bytes_total",
			Help: "Bytes read from the display transport.",
		}),
		bytesWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "written_bytes_total",
			Help: "Bytes written to the display transport.",
		}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "session", Name: "resolutions_total",
			Help: "Interface resolutions by outcome.",
		}, []string{"outcome"}),
		relayStreams: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "relay", Name: "streams_total",
			Help: "Relay streams by result.",
		}, []string{"result"}),
		relayActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "relay", Name: "active_streams",
			Help: "Relay streams currently spliced to the display socket.",
		}),
		relayBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "relay", Name: "bytes_total",
			Help: "Bytes forwarded by the relay.",
		}, []string{"direction"}),
	}
}

func (m *Metrics) FrameDecoded() {
	if m != nil {
		m.framesDecoded.Inc()
	}
}

func (m *Metrics) GlobalSeen() {
	if m != nil {
		m.globalsSeen.Inc()
	}
}

func (m *Metrics) Compaction() {
	if m != nil {
		m.compactions.Inc()
	}
}

func (m *Metrics) BytesRead(n int) {
	if m != nil {
		m.bytesRead.Add(float64(n))
	}
}

func (m *Metrics) BytesWritten(n int) {
	if m != nil {
		m.bytesWritten.Add(float64(n))
	}
}

// Resolution records the outcome label of one resolution call.
func (m *Metrics) Resolution(outcome string) {
	if m != nil {
		m.resolutions.WithLabelValues(outcome).Inc()
	}
}

// RelayStream records an accepted or rejected relay stream.
func (m *Metrics) RelayStream(result string) {
	if m != nil {
		m.relayStreams.WithLabelValues(result).Inc()
	}
}

// RelayActive adjusts the active stream gauge by delta.
func (m *Metrics) RelayActive(delta int) {
	if m != nil {
		m.relayActive.Add(float64(delta))
	}
}

// RelayBytes records n bytes forwarded in direction ("upstream" is
// client to display, "downstream" is display to client).
func (m *Metrics) RelayBytes(direction string, n int64) {
	if m != nil {
		m.relayBytes.WithLabelValues(direction).Add(float64(n))
	}
}
