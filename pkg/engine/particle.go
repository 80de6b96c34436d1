package engine

import (
	"image/color"
	"math"
	"math/rand"
)

// BoundaryMode controls how particles behave at the edges of the surface
type BoundaryMode int

const (
	// BoundaryWrap re-enters particles at the opposite edge (toroidal topology)
	BoundaryWrap BoundaryMode = iota
	// BoundaryBounce reflects the velocity sign at the edge, magnitude unchanged
	BoundaryBounce
)

// Simulation constants
const (
	maxVelocity   = 0.5 // Velocity component range is [-maxVelocity, maxVelocity)
	minSize       = 1.0
	maxSize       = 4.0
	minMaxLife    = 300 // Ticks before natural expiry, informational
	maxMaxLife    = 900
	lifeDecayRate = 0.2 // Life lost per second of simulated time
	minOpacity    = 0.2 // Fixed per-particle opacity range (bounce variant)
	maxOpacity    = 0.7
)

// palette is the fixed set of colors particles are drawn from
var palette = []color.RGBA{
	{R: 0x00, G: 0xE5, B: 0xFF, A: 0xFF}, // Cyan
	{R: 0x29, G: 0x79, B: 0xFF, A: 0xFF}, // Blue
	{R: 0x76, G: 0xFF, B: 0x03, A: 0xFF}, // Green
	{R: 0xFF, G: 0xD7, B: 0x40, A: 0xFF}, // Amber
	{R: 0xFF, G: 0x52, B: 0x52, A: 0xFF}, // Red
}

// Particle is a single simulated visual point
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Color   color.RGBA
	Life    float64 // Normalized remaining lifetime, always in (0, 1]
	MaxLife float64 // Ticks before natural expiry, informational
	Opacity float64 // Fixed draw opacity, used when life-based fade is off
}

// ParticleSystem owns a fixed-size ordered sequence of particles and their
// physics rules. The sequence order determines which prefix renders under
// reduced quality. Particles are recycled in place, never reallocated.
type ParticleSystem struct {
	particles []Particle
	width     float64
	height    float64
	mode      BoundaryMode
	rng       *rand.Rand
}

// NewParticleSystem creates a system of count particles seeded uniformly at
// random within the given bounds. The random source makes seeding
// deterministic for a fixed seed.
func NewParticleSystem(count int, width, height float64, mode BoundaryMode, rng *rand.Rand) *ParticleSystem {
	ps := &ParticleSystem{
		particles: make([]Particle, count),
		width:     width,
		height:    height,
		mode:      mode,
		rng:       rng,
	}

	for i := range ps.particles {
		p := &ps.particles[i]
		p.X = rng.Float64() * width
		p.Y = rng.Float64() * height
		p.VX = (rng.Float64()*2 - 1) * maxVelocity
		p.VY = (rng.Float64()*2 - 1) * maxVelocity
		p.Size = minSize + rng.Float64()*(maxSize-minSize)
		p.Color = palette[rng.Intn(len(palette))]
		// Life starts in (0, 1]; a zero draw would violate the invariant
		p.Life = 1 - rng.Float64()
		p.MaxLife = float64(minMaxLife + rng.Intn(maxMaxLife-minMaxLife))
		p.Opacity = minOpacity + rng.Float64()*(maxOpacity-minOpacity)
	}

	return ps
}

// Len returns the number of particles in the system
func (ps *ParticleSystem) Len() int {
	return len(ps.particles)
}

// Particles returns the underlying particle sequence. The slice is owned by
// the system; callers must not retain it across a Resize.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Prefix returns the number of leading particles covered by the given render
// fraction. The prefix is a deterministic stable subset, not a random sample,
// so reduced-quality frames are reproducible.
func (ps *ParticleSystem) Prefix(fraction float64) int {
	if fraction >= 1 {
		return len(ps.particles)
	}
	if fraction <= 0 {
		return 0
	}
	return int(math.Floor(float64(len(ps.particles)) * fraction))
}

// Bounds returns the current simulation bounds
func (ps *ParticleSystem) Bounds() (width, height float64) {
	return ps.width, ps.height
}

// Resize updates the simulation bounds. Existing particles outside the new
// bounds are folded back in on the next step.
func (ps *ParticleSystem) Resize(width, height float64) {
	ps.width = width
	ps.height = height
}

// Step advances the physics of the first Prefix(fraction) particles by one
// tick: position += velocity, boundary handling per the system's mode, and
// life decay by dt seconds. A particle whose life runs out is recycled in
// place: life resets to 1 and it repositions at random, keeping its velocity,
// size and color.
func (ps *ParticleSystem) Step(dt float64, fraction float64) {
	n := ps.Prefix(fraction)

	for i := 0; i < n; i++ {
		p := &ps.particles[i]

		p.X += p.VX
		p.Y += p.VY

		switch ps.mode {
		case BoundaryWrap:
			p.X = wrap(p.X, ps.width)
			p.Y = wrap(p.Y, ps.height)
		case BoundaryBounce:
			p.X, p.VX = bounce(p.X, p.VX, ps.width)
			p.Y, p.VY = bounce(p.Y, p.VY, ps.height)
		}

		p.Life -= dt * lifeDecayRate
		if p.Life <= 0 {
			p.Life = 1
			p.X = ps.rng.Float64() * ps.width
			p.Y = ps.rng.Float64() * ps.height
		}
	}
}

// wrap folds a coordinate into [0, bound) on the toroidal surface
func wrap(v, bound float64) float64 {
	if v >= 0 && v < bound {
		return v
	}
	v = math.Mod(v, bound)
	if v < 0 {
		v += bound
	}
	return v
}

// bounce reflects a coordinate off the edges of [0, bound], flipping the
// velocity sign while keeping its magnitude
func bounce(v, vel, bound float64) (float64, float64) {
	if v < 0 {
		return -v, -vel
	}
	if v > bound {
		return 2*bound - v, -vel
	}
	return v, vel
}
