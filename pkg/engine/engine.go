package engine

import (
	"math/rand"
	"time"

	"driftfield/internal/logger"
	"driftfield/pkg/config"
)

// State describes the engine lifecycle
type State int

const (
	// StateUninitialized is an engine that performs no work (inert)
	StateUninitialized State = iota
	// StateInitializing covers the backend probe and particle seeding
	StateInitializing
	// StateRunning means the scheduler holds a pending callback
	StateRunning
	// StateSuspended means no callback is scheduled but state is preserved
	StateSuspended
	// StateDestroyed is terminal; no operation is valid afterwards
	StateDestroyed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Host bundles the collaborators an engine needs from its embedding
// application: a drawable surface, a monotonic clock, a per-frame callback
// source, and optionally a visibility signal. Injecting these keeps the
// simulation and scheduling logic portable across hosts.
type Host struct {
	Surface    *Surface
	Clock      Clock
	Frames     FrameSource
	Visibility VisibilitySource
}

// Engine is the adaptive particle rendering engine. It owns a fixed-size
// particle swarm, advances its physics each accepted frame, renders through
// the backend chosen once at initialization, and continuously throttles its
// own fidelity to keep the host surface responsive.
//
// Everything runs on the host's single rendering thread; within any accepted
// tick the physics step strictly precedes the render, and the render sees
// that tick's quality tier.
type Engine struct {
	cfg config.EngineConfig
	log *logger.Logger

	surface    *Surface
	particles  *ParticleSystem
	backend    Backend
	quality    *QualityController
	scheduler  *FrameScheduler
	visibility *VisibilityController

	state        State
	gpuAvailable bool
}

// New constructs an engine against the given host. A missing or invalid
// surface silently produces an inert engine that performs no work; it never
// panics into the host. The GPU probe happens here, exactly once.
func New(cfg config.EngineConfig, log *logger.Logger, host Host) *Engine {
	e := &Engine{
		cfg:   cfg,
		log:   log,
		state: StateUninitialized,
	}

	if !host.Surface.Valid() || host.Clock == nil || host.Frames == nil {
		log.Warnf("invalid host surface, engine is inert")
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
		count = 500
	}
	e.particles = NewParticleSystem(count, float64(width), float64(height), BoundaryWrap, rng)

	e.backend, e.gpuAvailable = selectBackend(e.surface, host.Clock, cfg.EnableGPU, cfg.MaxFrameRate, log)
	e.quality = NewQualityController(host.Clock)
	e.scheduler = NewFrameScheduler(host.Clock, host.Frames, cfg.MaxFrameRate, e.tick)
	e.visibility = bindVisibility(host.Visibility, e.onVisibility)

	log.Debugf("engine initialized: %d particles, %dx%d, backend=%s",
		count, width, height, e.backend.Name())

	return e
}

// Start moves the engine into the running state and begins accepting frames.
// Starting an inert or destroyed engine is a no-op; starting a suspended one
// behaves exactly like Resume.
func (e *Engine) Start() {
	switch e.state {
	case StateInitializing:
		e.quality.Start()
	case StateSuspended:
		e.quality.Reset()
	default:
		return
	}
	e.scheduler.Start()
	e.state = StateRunning
}

// tick runs one accepted frame: sample fps, read the current tier, step the
// physics, then render the same prefix
func (e *Engine) tick(dt float64, now time.Time) {
	e.quality.RecordFrame(now)

	fraction := e.quality.Tier().Fraction()
	e.particles.Step(dt, fraction)

	if err := e.backend.Submit(e.particles, fraction); err != nil {
		e.log.Errorf("render submit failed: %v", err)
	}
}

// onVisibility reacts to the host surface's foreground/background signal
func (e *Engine) onVisibility(visible bool) {
	if visible {
		e.Resume()
	} else {
		e.Suspend()
	}
}

// Suspend cancels the pending frame callback. Particle state is preserved
// untouched; no destruction, no reset.
func (e *Engine) Suspend() {
	if e.state != StateRunning {
		return
	}
	e.scheduler.Stop()
	e.state = StateSuspended
	e.log.Debugf("engine suspended")
}

// Resume restarts scheduling. The scheduler resets its accepted-frame
// timestamp and the quality controller drops its partial sampling window, so
// the hidden interval produces no catch-up advancement and no spurious
// low-fps reading.
func (e *Engine) Resume() {
	if e.state != StateSuspended {
		return
	}
	e.quality.Reset()
	e.scheduler.Start()
	e.state = StateRunning
	e.log.Debugf("engine resumed")
}

// Resize propagates a host surface resize into the simulation bounds and the
// backend. Only the host resizes the surface, and only through here.
func (e *Engine) Resize(width, height int) {
	if e.state == StateUninitialized || e.state == StateDestroyed {
		return
	}
	e.surface.resize(width, height)
	e.particles.Resize(float64(width), float64(height))
	e.backend.Resize(width, height)
}

// Destroy tears the engine down from any state: the scheduler is cancelled,
// the visibility subscription detached, and backend resources released.
// Destroyed is terminal.
func (e *Engine) Destroy() {
	if e.state == StateDestroyed {
		return
	}
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
	if e.visibility != nil {
		e.visibility.Detach()
	}
	if e.backend != nil {
		e.backend.Release()
	}
	e.state = StateDestroyed
	if e.log != nil {
		e.log.Debugf("engine destroyed")
	}
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Tier returns the current quality tier, for display purposes only
func (e *Engine) Tier() QualityTier {
	if e.quality == nil {
		return TierHigh
	}
	return e.quality.Tier()
}

// GPUAvailable reports whether the GPU pipeline was acquired at
// initialization. For display only: it never triggers a backend switch.
func (e *Engine) GPUAvailable() bool {
	return e.gpuAvailable
}

// AcceptedFrames returns the number of accepted simulation steps
func (e *Engine) AcceptedFrames() uint64 {
	if e.scheduler == nil {
		return 0
	}
	return e.scheduler.Accepted()
}

// Particles exposes the particle system for the host and tests
func (e *Engine) Particles() *ParticleSystem {
	return e.particles
}

// Backend returns the name of the selected backend
func (e *Engine) Backend() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Name()
}
