package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Posting outcomes recorded by the poster.
const (
	OutcomePosted        = "posted"
	OutcomeAlreadyPosted = "already_posted"
	OutcomeInProgress    = "in_progress"
	OutcomeFailed        = "failed"
)

// Metrics holds the ledger's Prometheus instruments. A nil *Metrics is a no-op.
type Metrics struct {
	postings        *prometheus.CounterVec
	sweepScanned    prometheus.Counter
	sweepRetried    prometheus.Counter
	sweepFailed     prometheus.Counter
	rebuildDuration *prometheus.HistogramVec
	webhooks        *prometheus.CounterVec
}

// New creates the instruments and registers them on registerer
// (prometheus.DefaultRegisterer when nil).
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coop_ledger_payment_postings_total",
			Help: "Payment posting attempts by outcome.",
		}, []string{"outcome"}),
		sweepScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coop_ledger_sweep_scanned_total",
			Help: "Paid payments examined by the posting sweeper.",
		}),
		sweepRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coop_ledger_sweep_retried_total",
			Help: "Postings the sweeper retried successfully.",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coop_ledger_sweep_failed_total",
			Help: "Postings the sweeper retried without success.",
		}),
		rebuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coop_ledger_report_rebuild_seconds",
			Help:    "Duration of financial report rebuilds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coop_ledger_gateway_webhooks_total",
			Help: "Payment gateway webhooks by result.",
		}, []string{"result"}),
	}

	registerer.MustRegister(m.postings, m.sweepScanned, m.sweepRetried, m.sweepFailed, m.rebuildDuration, m.webhooks)
	return m
}

// PostingOutcome counts one posting invocation.
func (m *Metrics) PostingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(outcome).Inc()
}

// SweepCompleted adds one sweeper run's counts.
func (m *Metrics) SweepCompleted(scanned, retried, failed int) {
	if m == nil {
		return
	}
	m.sweepScanned.Add(float64(scanned))
	m.sweepRetried.Add(float64(retried))
	m.sweepFailed.Add(float64(failed))
}

// ObserveRebuild records how long a rebuild took.
func (m *Metrics) ObserveRebuild(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.rebuildDuration.WithLabelValues(result).Observe(d.Seconds())
}

// WebhookReceived counts one webhook delivery.
func (m *Metrics) WebhookReceived(result string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(result).Inc()
}
