package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// driveFPS records windows-worth of frames at the given frame rate
func driveFPS(q *QualityController, clock *ManualClock, fps int, windows int) {
	spacing := time.Second / time.Duration(fps)
	for i := 0; i < fps*windows+windows; i++ {
		q.RecordFrame(clock.Now())
		clock.Advance(spacing)
	}
}

func newWarmController(clock *ManualClock) *QualityController {
	q := NewQualityController(clock)
	q.Start()
	clock.Advance(qualityWarmup)
	return q
}

func TestQualityStartsHigh(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := NewQualityController(clock)
	assert.Equal(t, TierHigh, q.Tier())
	assert.Equal(t, 1.0, q.Tier().Fraction())
}

func TestQualityLowFPSDropsToLow(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := newWarmController(clock)

	driveFPS(q, clock, 25, 3)
	assert.Equal(t, TierLow, q.Tier())
	assert.Equal(t, 0.4, q.Tier().Fraction())
}

func TestQualityHighFPSClimbsToHigh(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := newWarmController(clock)

	driveFPS(q, clock, 25, 3) // force Low first
	driveFPS(q, clock, 60, 3)
	assert.Equal(t, TierHigh, q.Tier())
}

func TestQualityMediumBand(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := newWarmController(clock)

	driveFPS(q, clock, 51, 3)
	assert.Equal(t, TierMedium, q.Tier())
	assert.Equal(t, 0.7, q.Tier().Fraction())
}

func TestQualityDeadZoneHoldsCurrentTier(t *testing.T) {
	for _, start := range []int{25, 51, 60} {
		clock := NewManualClock(time.Unix(0, 0))
		q := newWarmController(clock)

		driveFPS(q, clock, start, 3)
		before := q.Tier()

		// 30 <= fps < 50 hits no transition rule; the tier must not move
		driveFPS(q, clock, 40, 3)
		assert.Equal(t, before, q.Tier(), "dead zone moved the tier from %v", before)
	}
}

func TestQualityWarmupIgnoresStartupTransients(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := NewQualityController(clock)
	q.Start()

	// A terrible frame rate during the first two seconds must not react
	spacing := 100 * time.Millisecond // 10 fps
	for clock.Now().Sub(time.Unix(0, 0)) < qualityWarmup {
		q.RecordFrame(clock.Now())
		clock.Advance(spacing)
	}
	assert.Equal(t, TierHigh, q.Tier())
}

func TestQualityResetDropsPartialWindow(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := newWarmController(clock)

	// A few frames into a fresh window at a healthy rate
	for i := 0; i < 5; i++ {
		q.RecordFrame(clock.Now())
		clock.Advance(time.Second / 60)
	}

	// A long idle stretch with the window reset must not close a
	// multi-second window out of those few frames
	clock.Advance(10 * time.Second)
	q.Reset()

	q.RecordFrame(clock.Now())
	assert.Equal(t, TierHigh, q.Tier())

	// Sampling picks up cleanly afterwards
	driveFPS(q, clock, 60, 2)
	assert.Equal(t, TierHigh, q.Tier())
}

func TestQualityNotStartedRecordsNothing(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	q := NewQualityController(clock)

	clock.Advance(time.Hour)
	driveFPS(q, clock, 10, 3)
	assert.Equal(t, TierHigh, q.Tier())
}
