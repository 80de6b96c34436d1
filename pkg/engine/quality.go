package engine

import (
	"time"
)

// QualityTier is a discrete fidelity level trading rendered particle count
// for frame-rate stability
type QualityTier int

const (
	// TierHigh renders the full particle sequence
	TierHigh QualityTier = iota
	// TierMedium renders 70% of the sequence
	TierMedium
	// TierLow renders 40% of the sequence
	TierLow
)

// String returns the tier name
func (t QualityTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// Fraction returns the portion of the particle sequence rendered at this tier
func (t QualityTier) Fraction() float64 {
	switch t {
	case TierMedium:
		return 0.7
	case TierLow:
		return 0.4
	default:
		return 1.0
	}
}

// Quality sampling constants
const (
	qualityWarmup = 2000 * time.Millisecond // Startup transients are ignored
	qualityWindow = 1000 * time.Millisecond
	fpsLow        = 30
	fpsMediumMin  = 50
	fpsHigh       = 55
)

// QualityController samples the realized frame rate over rolling windows and
// maps it to a render-fraction tier. The tier is state scoped to a single
// engine instance; concurrent engines never share it.
//
// The transition rule deliberately leaves the 30..50 fps band as a dead zone
// in which the current tier is retained, preventing tier flapping around the
// thresholds.
type QualityController struct {
	clock Clock

	startedAt   time.Time
	windowStart time.Time
	frames      int
	tier        QualityTier
	started     bool
}

// NewQualityController creates a controller at the high tier. Sampling does
// not begin until Start.
func NewQualityController(clock Clock) *QualityController {
	return &QualityController{
		clock: clock,
		tier:  TierHigh,
	}
}

// Start begins the warm-up period. Frames recorded during warm-up are not
// counted.
func (q *QualityController) Start() {
	q.startedAt = q.clock.Now()
	q.windowStart = time.Time{}
	q.frames = 0
	q.started = true
}

// Reset discards the partially filled sampling window and its frame count,
// keeping the current tier and the warm-up epoch. Called on resume so a
// hidden stretch can never close a window: the window time base only spans
// periods in which the scheduler was actually producing accepted frames.
func (q *QualityController) Reset() {
	q.windowStart = time.Time{}
	q.frames = 0
}

// Tier returns the current quality tier
func (q *QualityController) Tier() QualityTier {
	return q.tier
}

// RecordFrame counts one accepted frame at the given time. When the rolling
// window closes, the accepted-frame count becomes the fps sample and the
// transition rule is evaluated. Sampling stops with the scheduler; the
// controller simply does not observe frames while no ticks are accepted.
func (q *QualityController) RecordFrame(now time.Time) {
	if !q.started || now.Sub(q.startedAt) < qualityWarmup {
		return
	}

	if q.windowStart.IsZero() {
		q.windowStart = now
		q.frames = 1
		return
	}

	q.frames++
	if now.Sub(q.windowStart) >= qualityWindow {
		q.apply(q.frames)
		q.frames = 0
		q.windowStart = now
	}
}

// apply maps an fps sample to a tier transition. Samples inside the dead
// zone leave the tier unchanged.
func (q *QualityController) apply(fps int) {
	switch {
	case fps < fpsLow:
		q.tier = TierLow
	case fps >= fpsHigh:
		q.tier = TierHigh
	case fps >= fpsMediumMin:
		q.tier = TierMedium
	}
}
