package engine

import (
	"math/rand"
	"time"

	"driftfield/internal/logger"
	"driftfield/pkg/config"
)

// LightweightEngine is an independently constructed, simplified engine for
// constrained targets: a small fixed particle count, immediate-mode-only
// rendering (no GPU probe), no quality controller (always the full
// sequence), reflective boundaries instead of toroidal wrap, fixed
// per-particle opacity with no life-based fade, and no frame-rate cap. It is
// never a runtime mode of the main engine.
type LightweightEngine struct {
	log       *logger.Logger
	surface   *Surface
	particles *ParticleSystem
	backend   Backend
	scheduler *FrameScheduler
	state     State
}

// NewLightweight constructs the lightweight variant against the given host.
// Visibility handling is up to the host; Suspend and Resume are exposed
// directly.
func NewLightweight(cfg config.LightweightConfig, log *logger.Logger, host Host) *LightweightEngine {
	e := &LightweightEngine{
		log:   log,
		state: StateUninitialized,
	}

	if !host.Surface.Valid() || host.Clock == nil || host.Frames == nil {
		log.Warnf("invalid host surface, lightweight engine is inert")
		return e
	}

	e.state = StateInitializing
	e.surface = host.Surface

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	width, height := e.surface.Size()
	count := cfg.ParticleCount
	if count <= 0 {
		count = 50
	}
	e.particles = NewParticleSystem(count, float64(width), float64(height), BoundaryBounce, rng)
	e.backend = NewRasterizer(e.surface, false)
	// No cap: the variant runs at the host's native frame rate
	e.scheduler = NewFrameScheduler(host.Clock, host.Frames, 0, e.tick)

	log.Debugf("lightweight engine initialized: %d particles, %dx%d", count, width, height)

	return e
}

// Start begins accepting host frames
func (e *LightweightEngine) Start() {
	if e.state != StateInitializing && e.state != StateSuspended {
		return
	}
	e.scheduler.Start()
	e.state = StateRunning
}

// tick advances and renders the full particle sequence
func (e *LightweightEngine) tick(dt float64, now time.Time) {
	e.particles.Step(dt, 1)
	if err := e.backend.Submit(e.particles, 1); err != nil {
		e.log.Errorf("render submit failed: %v", err)
	}
}

// Suspend cancels the pending frame callback, preserving particle state
func (e *LightweightEngine) Suspend() {
	if e.state != StateRunning {
		return
	}
	e.scheduler.Stop()
	e.state = StateSuspended
}

// Resume restarts scheduling without catch-up advancement
func (e *LightweightEngine) Resume() {
	if e.state != StateSuspended {
		return
	}
	e.scheduler.Start()
	e.state = StateRunning
}

// Resize propagates a host surface resize
func (e *LightweightEngine) Resize(width, height int) {
	if e.state == StateUninitialized || e.state == StateDestroyed {
		return
	}
	e.surface.resize(width, height)
	e.particles.Resize(float64(width), float64(height))
}

// Destroy tears the engine down; terminal
func (e *LightweightEngine) Destroy() {
	if e.state == StateDestroyed {
		return
	}
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
	if e.backend != nil {
		e.backend.Release()
	}
	e.state = StateDestroyed
}

// State returns the current lifecycle state
func (e *LightweightEngine) State() State {
	return e.state
}

// Particles exposes the particle system for the host and tests
func (e *LightweightEngine) Particles() *ParticleSystem {
	return e.particles
}
