// Package metrics exposes Prometheus counters for the raffle service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered for the service.
type Metrics struct {
	ScoreSubmissions  prometheus.Counter
	ScoresRejected    prometheus.Counter
	SessionsCommitted prometheus.Counter
	SessionsRevealed  prometheus.Counter
	DrawsRun          prometheus.Counter
	DrawsFailed       prometheus.Counter
	VRFFallbacks      prometheus.Counter
	DrawDuration      prometheus.Histogram
}

// New registers the service collectors on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScoreSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "score_submissions_total",
			Help:      "Accepted score submissions.",
		}),
		ScoresRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "score_rejections_total",
			Help:      "Score submissions rejected by validation or attestation.",
		}),
		SessionsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "sessions_committed_total",
			Help:      "Commit-reveal sessions opened.",
		}),
		SessionsRevealed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "sessions_revealed_total",
			Help:      "Commit-reveal sessions revealed.",
		}),
		DrawsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "draws_total",
			Help:      "Daily draws completed.",
		}),
		DrawsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "draw_failures_total",
			Help:      "Daily draws that failed before publication.",
		}),
		VRFFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raffle",
			Name:      "vrf_fallbacks_total",
			Help:      "Draws that fell back to local randomness after an oracle timeout.",
		}),
		DrawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raffle",
			Name:      "draw_duration_seconds",
			Help:      "Wall time of a full daily raffle run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.ScoreSubmissions,
		m.ScoresRejected,
		m.SessionsCommitted,
		m.SessionsRevealed,
		m.DrawsRun,
		m.DrawsFailed,
		m.VRFFallbacks,
		m.DrawDuration,
	)
	return m
}
