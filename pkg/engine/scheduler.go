package engine

import (
	"time"
)

// FrameScheduler drives the simulation off the host's per-frame callback
// while self-throttling to a configured maximum step rate. On each host tick
// it either accepts the tick (runs the step callback) or skips the work and
// stays scheduled for the next tick; there is no busy-waiting.
//
// The scheduler holds at most one pending host callback at a time, which is
// what guarantees the particle sequence is never concurrently mutated.
type FrameScheduler struct {
	clock    Clock
	frames   FrameSource
	interval time.Duration // Zero means no cap: every host tick is accepted

	lastAccepted time.Time
	cancel       func()
	running      bool
	accepted     uint64

	// onTick runs the physics step and render for one accepted tick.
	// dt is the time since the previous accepted tick, in seconds.
	onTick func(dt float64, now time.Time)
}

// NewFrameScheduler creates a scheduler capped at maxFPS accepted steps per
// second. maxFPS <= 0 disables the cap.
func NewFrameScheduler(clock Clock, frames FrameSource, maxFPS int, onTick func(dt float64, now time.Time)) *FrameScheduler {
	var interval time.Duration
	if maxFPS > 0 {
		interval = time.Second / time.Duration(maxFPS)
	}
	return &FrameScheduler{
		clock:    clock,
		frames:   frames,
		interval: interval,
		onTick:   onTick,
	}
}

// Start begins scheduling. lastAccepted resets to now, so the first accepted
// tick never sees an artificially large catch-up delta. Starting a running
// scheduler is a no-op.
func (s *FrameScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.lastAccepted = s.clock.Now()
	s.schedule()
}

// Stop cancels the pending host callback; no further step executes until
// Start is called again. An in-flight callback runs to completion but
// schedules nothing afterwards.
func (s *FrameScheduler) Stop() {
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Running reports whether the scheduler currently holds a pending callback
func (s *FrameScheduler) Running() bool {
	return s.running
}

// Accepted returns the number of accepted steps since construction
func (s *FrameScheduler) Accepted() uint64 {
	return s.accepted
}

// schedule registers the single pending host callback
func (s *FrameScheduler) schedule() {
	s.cancel = s.frames.RequestFrame(s.onFrame)
}

// onFrame handles one host tick
func (s *FrameScheduler) onFrame() {
	if !s.running {
		return
	}

	now := s.clock.Now()
	elapsed := now.Sub(s.lastAccepted)

	if s.interval == 0 || elapsed >= s.interval {
		s.onTick(elapsed.Seconds(), now)
		s.lastAccepted = now
		s.accepted++
	}

	// Stay scheduled regardless of whether this tick was accepted,
	// unless the step callback stopped the scheduler
	if s.running {
		s.schedule()
	}
}
