package core

import (
	"time"

	"github.com/spaghettifunk/stlpose/engine/containers"
)

// AVG_COUNT is the number of recent renders averaged by Metrics.
const AVG_COUNT int = 30

// Metrics keeps a rolling average of render durations. It is not safe for
// concurrent use.
type Metrics struct {
	samples *containers.RingQueue[time.Duration]
	sum     time.Duration
	renders int
}

func NewMetrics() *Metrics {
	return &Metrics{
		samples: containers.NewRingQueue[time.Duration](AVG_COUNT),
	}
}

// Update records the duration of one render.
func (m *Metrics) Update(elapsed time.Duration) {
	if dropped, ok := m.samples.Push(elapsed); ok {
		m.sum -= dropped
	}
	m.sum += elapsed
	m.renders++
}

// Average returns the mean of the last AVG_COUNT renders, or zero before
// the first one.
func (m *Metrics) Average() time.Duration {
	n := m.samples.Len()
	if n == 0 {
		return 0
	}
	return m.sum / time.Duration(n)
}

// Renders returns how many renders have been recorded in total.
func (m *Metrics) Renders() int {
	return m.renders
}
