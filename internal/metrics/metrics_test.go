// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementBallot("YES")
	m.IncrementBallot("YES")
	m.IncrementBallot("NO")
	m.IncrementTabulation("head_count", true)
	m.AddVotersCreated(3)
	m.AddVotersCreated(0)
	m.ObserveSubmitLatency(10 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BallotsSubmitted.WithLabelValues("YES")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BallotsSubmitted.WithLabelValues("NO")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TabulationOutcome.WithLabelValues("head_count", "true")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.VotersCreated))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementBallot("YES")
		m.IncrementTabulation("share_weighted", false)
		m.AddVotersCreated(1)
		m.ObserveSubmitLatency(time.Second)
	})
}
