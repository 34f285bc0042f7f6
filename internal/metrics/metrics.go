// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus instruments of the approval service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for voting and tabulation.
type Metrics struct {
	// Ballots applied, by resolved vote value
	BallotsSubmitted *prometheus.CounterVec

	// Tabulation outcomes by tally rule
	TabulationOutcome *prometheus.CounterVec

	// Voters created by roster builds
	VotersCreated prometheus.Counter

	// Duration of a full ballot batch including tabulation
	SubmitLatency prometheus.Histogram
}

// New creates a Metrics instance registered with reg. A nil reg registers
// with the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BallotsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "approval_ballots_submitted_total",
			Help: "Total ballots applied to voters by vote value",
		}, []string{"vote"}),

		TabulationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "approval_tabulations_total",
			Help: "Total tabulations by tally rule and outcome",
		}, []string{"rule", "accepted"}),

		VotersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "approval_voters_created_total",
			Help: "Total voters created by roster builds",
		}),

		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "approval_submit_votes_duration_seconds",
			Help:    "Duration of ballot batch submission including tabulation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementBallot records one applied ballot.
func (m *Metrics) IncrementBallot(vote string) {
	if m != nil {
		m.BallotsSubmitted.WithLabelValues(vote).Inc()
	}
}

// IncrementTabulation records a tabulation outcome.
func (m *Metrics) IncrementTabulation(rule string, accepted bool) {
	if m != nil {
		m.TabulationOutcome.WithLabelValues(rule, strconv.FormatBool(accepted)).Inc()
	}
}

// AddVotersCreated records voters created by a roster build.
func (m *Metrics) AddVotersCreated(n int) {
	if m != nil && n > 0 {
		m.VotersCreated.Add(float64(n))
	}
}

// ObserveSubmitLatency records the duration of a ballot batch.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}
