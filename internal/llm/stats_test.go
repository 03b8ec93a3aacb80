package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	assert.Zero(t, snap.Count)
	assert.Zero(t, snap.MaxMs)
}

func TestStats_SingleObservation(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(250 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(250), snap.MinMs)
	assert.Equal(t, int64(250), snap.MaxMs)
	assert.Equal(t, 250.0, snap.AvgMs)
	assert.Equal(t, 250.0, snap.P50Ms)
}

func TestStats_Aggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Count)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(400), snap.MaxMs)
	assert.Equal(t, 250.0, snap.AvgMs)
	assert.Equal(t, 250.0, snap.P50Ms)
}

func TestStats_NegativeDurationClamped(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-5 * time.Second)
	snap := s.Snapshot()
	assert.Equal(t, int64(0), snap.MinMs)
}

func TestStats_OldObservationsPruned(t *testing.T) {
	s := NewStats(10 * time.Millisecond)
	s.Record(100 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	s.Record(200 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)
}

func TestPercentile_Interpolates(t *testing.T) {
	values := []int64{100, 200, 300, 400}
	assert.Equal(t, 100.0, percentile(values, 0))
	assert.Equal(t, 400.0, percentile(values, 100))
	assert.Equal(t, 250.0, percentile(values, 50))
	assert.InDelta(t, 385.0, percentile(values, 95), 0.001)
}
