package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":  DebugLevel,
		"INFO":   InfoLevel,
		" warn ": WarnLevel,
		"Error":  ErrorLevel,
		"fatal":  FatalLevel,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed(), "update before start has no effect")

	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	first := c.Elapsed()
	assert.GreaterOrEqual(t, first, 2*time.Millisecond)

	c.Stop()
	stopped := c.Elapsed()
	c.Update()
	assert.Equal(t, stopped, c.Elapsed(), "stopped clock keeps its elapsed time")
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("record 3 of 9: %w", ErrTruncatedInput)
	assert.True(t, errors.Is(err, ErrTruncatedInput))
	assert.False(t, errors.Is(err, ErrMalformedHeader))
}

func TestMetricsRollingAverage(t *testing.T) {
	m := NewMetrics()
	assert.Zero(t, m.Average())

	m.Update(10 * time.Millisecond)
	m.Update(20 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, m.Average())

	for i := 0; i < AVG_COUNT; i++ {
		m.Update(4 * time.Millisecond)
	}
	assert.Equal(t, 4*time.Millisecond, m.Average(), "older samples fall out of the window")
	assert.Equal(t, AVG_COUNT+2, m.Renders())
}
