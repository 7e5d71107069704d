// Package tcpmetrics exposes Sender activity as Prometheus instruments, the
// same role runZeroInc's pkg/exporter plays for real kernel sockets'
// tcp_info, except here the numbers come straight from the in-memory
// sender rather than a syscall.
package tcpmetrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder implements tcpendpoint.MetricsSink by forwarding to a small set
// of Prometheus instruments registered under a caller-chosen label set, the
// same per-connection correlation problem exporter.TCPInfoCollector solves
// for real sockets.
type Recorder struct {
	segmentsSent   prometheus.Counter
	retransmits    prometheus.Counter
	bytesInFlight  prometheus.Gauge
	rtoMs          prometheus.Gauge
}

// NewRecorder builds and registers the four instruments with reg under
// constLabels (for example {"session": xid.New().String()}). reg is
// typically prometheus.DefaultRegisterer or a *prometheus.Registry scoped
// to one endpoint.
func NewRecorder(reg prometheus.Registerer, constLabels prometheus.Labels) *Recorder {
	r := &Recorder{
		segmentsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tcpcore",
			Name:        "segments_sent_total",
			Help:        "Number of segments emitted by the sender.",
			ConstLabels: constLabels,
		}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tcpcore",
			Name:        "retransmissions_total",
			Help:        "Number of segments retransmitted by the retransmission timer.",
			ConstLabels: constLabels,
		}),
		bytesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tcpcore",
			Name:        "bytes_in_flight",
			Help:        "Sequence numbers currently outstanding, unacknowledged.",
			ConstLabels: constLabels,
		}),
		rtoMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tcpcore",
			Name:        "retransmission_timeout_ms",
			Help:        "Current retransmission timeout in milliseconds.",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(r.segmentsSent, r.retransmits, r.bytesInFlight, r.rtoMs)
	return r
}

// SegmentSent records one emitted segment of the given sequence length.
func (r *Recorder) SegmentSent(seqLen int) { r.segmentsSent.Inc() }

// Retransmission records one retransmission fired by the timer.
func (r *Recorder) Retransmission() { r.retransmits.Inc() }

// BytesInFlight sets the current outstanding-sequence-number count.
func (r *Recorder) BytesInFlight(n int) { r.bytesInFlight.Set(float64(n)) }

// RTO sets the current retransmission timeout, in milliseconds.
func (r *Recorder) RTO(ms uint64) { r.rtoMs.Set(float64(ms)) }
