package engine

import (
	"image"
	"image/color"
	"image/draw"
)

// background is the clear color of the CPU frame
var background = color.RGBA{R: 0x0A, G: 0x0D, B: 0x12, A: 0xFF}

// Rasterizer is the CPU-driven immediate-mode drawing path, used when no GPU
// pipeline is available and by the lightweight variant. Each particle is a
// filled disc; opacity comes either from the particle's remaining life
// (fading near expiry) or from its fixed per-particle opacity.
type Rasterizer struct {
	surface  *Surface
	lifeFade bool
}

// NewRasterizer creates an immediate-mode rasterizer targeting the surface's
// CPU frame. lifeFade selects life-based opacity; the lightweight variant
// passes false and uses the fixed opacity chosen at particle creation.
func NewRasterizer(surface *Surface, lifeFade bool) *Rasterizer {
	return &Rasterizer{surface: surface, lifeFade: lifeFade}
}

// Name returns the backend identifier
func (r *Rasterizer) Name() string {
	return BackendRaster
}

// Submit clears the frame and draws the prefix of the particle sequence.
// Particle state is never mutated.
func (r *Rasterizer) Submit(ps *ParticleSystem, fraction float64) error {
	frame := r.surface.Frame()
	if frame == nil {
		return nil
	}

	draw.Draw(frame, frame.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	particles := ps.Particles()
	n := ps.Prefix(fraction)
	for i := 0; i < n; i++ {
		p := &particles[i]
		alpha := p.Opacity
		if r.lifeFade {
			alpha = p.Life
		}
		fillDisc(frame, p.X, p.Y, p.Size, p.Color, alpha)
	}

	return nil
}

// Resize is a no-op: the rasterizer draws into the surface frame, which the
// engine reallocates on resize.
func (r *Rasterizer) Resize(width, height int) {}

// Release frees nothing; the CPU path holds no device resources
func (r *Rasterizer) Release() {}

// fillDisc draws a filled disc of the given radius and color, blended
// src-over onto the frame at the given opacity
func fillDisc(frame *image.RGBA, cx, cy, radius float64, c color.RGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	bounds := frame.Bounds()
	minX := int(cx - radius)
	maxX := int(cx + radius)
	minY := int(cy - radius)
	maxY := int(cy + radius)

	if minX < bounds.Min.X {
		minX = bounds.Min.X
	}
	if maxX >= bounds.Max.X {
		maxX = bounds.Max.X - 1
	}
	if minY < bounds.Min.Y {
		minY = bounds.Min.Y
	}
	if maxY >= bounds.Max.Y {
		maxY = bounds.Max.Y - 1
	}

	r2 := radius * radius
	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				blendPixel(frame, x, y, c, alpha)
			}
		}
	}
}

// blendPixel writes a color src-over onto the frame at the given opacity
func blendPixel(frame *image.RGBA, x, y int, c color.RGBA, alpha float64) {
	i := frame.PixOffset(x, y)
	pix := frame.Pix[i : i+4 : i+4]

	pix[0] = uint8(float64(c.R)*alpha + float64(pix[0])*(1-alpha))
	pix[1] = uint8(float64(c.G)*alpha + float64(pix[1])*(1-alpha))
	pix[2] = uint8(float64(c.B)*alpha + float64(pix[2])*(1-alpha))
	pix[3] = 0xFF
}
