package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftfield/internal/logger"
	"driftfield/pkg/config"
)

type testHost struct {
	surface    *Surface
	clock      *ManualClock
	frames     *ManualFrameSource
	visibility *ManualVisibility
}

func newTestHost(width, height int) *testHost {
	return &testHost{
		surface:    NewSurface(width, height),
		clock:      NewManualClock(time.Unix(0, 0)),
		frames:     NewManualFrameSource(),
		visibility: NewManualVisibility(),
	}
}

func (h *testHost) host() Host {
	return Host{
		Surface:    h.surface,
		Clock:      h.clock,
		Frames:     h.frames,
		Visibility: h.visibility,
	}
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		Width:         100,
		Height:        100,
		ParticleCount: 20,
		EnableGPU:     true,
		MaxFrameRate:  60,
		Seed:          42,
	}
}

// tick advances the clock by one accepted interval and fires the host frame
func (h *testHost) tick() {
	h.clock.Advance(17 * time.Millisecond)
	h.frames.Pump()
}

func TestEngineFallsBackWithoutGLContext(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())
	defer e.Destroy()

	assert.False(t, e.GPUAvailable())
	assert.Equal(t, BackendRaster, e.Backend())
}

func TestEngineLifecycle(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())

	assert.Equal(t, StateInitializing, e.State())

	e.Start()
	assert.Equal(t, StateRunning, e.State())
	require.True(t, h.frames.Pending())

	h.tick()
	h.tick()
	assert.Equal(t, uint64(2), e.AcceptedFrames())

	e.Destroy()
	assert.Equal(t, StateDestroyed, e.State())
	assert.False(t, h.frames.Pending())

	// Terminal: nothing revives a destroyed engine
	e.Start()
	assert.Equal(t, StateDestroyed, e.State())
	e.Resume()
	assert.Equal(t, StateDestroyed, e.State())
	e.Destroy()
	assert.Equal(t, StateDestroyed, e.State())
}

func TestEngineInertOnInvalidSurface(t *testing.T) {
	h := newTestHost(0, 0)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())

	assert.Equal(t, StateUninitialized, e.State())

	// No work, no panic
	e.Start()
	assert.Equal(t, StateUninitialized, e.State())
	assert.False(t, h.frames.Pending())
	assert.Equal(t, uint64(0), e.AcceptedFrames())

	e.Destroy()
	assert.Equal(t, StateDestroyed, e.State())
}

func TestEngineVisibilitySuspendsAndResumes(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())
	defer e.Destroy()
	e.Start()

	h.tick()
	before := e.AcceptedFrames()

	h.visibility.Set(false)
	assert.Equal(t, StateSuspended, e.State())
	assert.False(t, h.frames.Pending())

	// Hidden: host frames do nothing
	h.tick()
	h.tick()
	assert.Equal(t, before, e.AcceptedFrames())

	h.visibility.Set(true)
	assert.Equal(t, StateRunning, e.State())
	assert.True(t, h.frames.Pending())
}

func TestEngineResumeHasNoCatchUp(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())
	defer e.Destroy()
	e.Start()

	h.tick()

	// Pin the life so the recycle path cannot reposition this particle
	e.Particles().Particles()[0].Life = 1
	p := e.Particles().Particles()[0]
	h.visibility.Set(false)

	// A long hidden stretch must not advance particle state at all
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, p, e.Particles().Particles()[0])

	h.visibility.Set(true)
	h.tick()

	// The first resumed frame advances by exactly one ordinary tick
	resumed := e.Particles().Particles()[0]
	assert.InDelta(t, wrap(p.X+p.VX, 100), resumed.X, 1e-9)
	assert.InDelta(t, wrap(p.Y+p.VY, 100), resumed.Y, 1e-9)
}

func TestEngineResumeKeepsTierStable(t *testing.T) {
	h := newTestHost(100, 100)
	cfg := testEngineConfig()
	cfg.MaxFrameRate = 0 // accept every host tick so the fps trace is exact
	e := New(cfg, logger.NewLogger("error"), h.host())
	defer e.Destroy()
	e.Start()

	// Sustain 60 fps past the warm-up and through one full window
	h.clock.Advance(qualityWarmup)
	for i := 0; i < 70; i++ {
		h.clock.Advance(time.Second / 60)
		h.frames.Pump()
	}
	require.Equal(t, TierHigh, e.Tier())

	// A few frames into the next window, then hide for a long while
	for i := 0; i < 5; i++ {
		h.clock.Advance(time.Second / 60)
		h.frames.Pump()
	}
	h.visibility.Set(false)
	h.clock.Advance(10 * time.Second)
	h.visibility.Set(true)

	// The first resumed frame must not close a stale multi-second window
	// and misread it as a frame-rate collapse
	h.clock.Advance(time.Second / 60)
	h.frames.Pump()
	assert.Equal(t, TierHigh, e.Tier())
}

func TestEngineSuspendIgnoredUnlessRunning(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())
	defer e.Destroy()

	e.Suspend()
	assert.Equal(t, StateInitializing, e.State())

	e.Start()
	e.Suspend()
	e.Suspend()
	assert.Equal(t, StateSuspended, e.State())
}

func TestEngineDeterministicSeeding(t *testing.T) {
	a := New(testEngineConfig(), logger.NewLogger("error"), newTestHost(100, 100).host())
	b := New(testEngineConfig(), logger.NewLogger("error"), newTestHost(100, 100).host())
	defer a.Destroy()
	defer b.Destroy()

	require.Equal(t, a.Particles().Particles(), b.Particles().Particles())
}

func TestEngineResizePropagates(t *testing.T) {
	h := newTestHost(100, 100)
	e := New(testEngineConfig(), logger.NewLogger("error"), h.host())
	defer e.Destroy()
	e.Start()

	e.Resize(300, 200)

	w, hgt := h.surface.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, hgt)

	pw, ph := e.Particles().Bounds()
	assert.Equal(t, 300.0, pw)
	assert.Equal(t, 200.0, ph)

	// Steps keep particles inside the new bounds
	for i := 0; i < 1000; i++ {
		h.tick()
	}
	for _, p := range e.Particles().Particles() {
		require.Less(t, p.X, 300.0)
		require.Less(t, p.Y, 200.0)
	}
}

func TestEngineTierIsPerInstance(t *testing.T) {
	slow := newTestHost(100, 100)
	fast := newTestHost(100, 100)
	cfg := testEngineConfig()
	cfg.MaxFrameRate = 0 // accept every host tick so the fps trace is exact

	a := New(cfg, logger.NewLogger("error"), slow.host())
	b := New(cfg, logger.NewLogger("error"), fast.host())
	defer a.Destroy()
	defer b.Destroy()
	a.Start()
	b.Start()

	// Warm both controllers past the sampling delay
	slow.clock.Advance(qualityWarmup)
	fast.clock.Advance(qualityWarmup)

	for i := 0; i < 100; i++ { // ~25 fps for four seconds
		slow.clock.Advance(40 * time.Millisecond)
		slow.frames.Pump()
	}
	for i := 0; i < 240; i++ { // ~60 fps
		fast.clock.Advance(time.Second / 60)
		fast.frames.Pump()
	}

	assert.Equal(t, TierLow, a.Tier())
	assert.Equal(t, TierHigh, b.Tier())
}
