package engine

import (
	"image"
)

// Surface is the drawable target an engine instance renders into. It is
// exclusively owned by one engine for its lifetime; the host propagates
// resizes through the owning engine, never directly.
type Surface struct {
	width  int
	height int
	frame  *image.RGBA
	hasGL  bool
}

// NewSurface creates a render surface with the given dimensions. Non-positive
// dimensions produce an invalid surface; constructing an engine on one yields
// an inert engine rather than an error.
func NewSurface(width, height int) *Surface {
	s := &Surface{width: width, height: height}
	if s.Valid() {
		s.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return s
}

// Valid reports whether the surface has usable dimensions
func (s *Surface) Valid() bool {
	return s != nil && s.width > 0 && s.height > 0
}

// Size returns the surface dimensions
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Frame returns the CPU-side pixel buffer used by the immediate-mode
// rasterizer. It is reallocated on resize.
func (s *Surface) Frame() *image.RGBA {
	return s.frame
}

// EnableGL marks the surface as backed by a current OpenGL context. Only a
// host that has actually made a context current should call this; the GPU
// probe is skipped entirely without it.
func (s *Surface) EnableGL() {
	s.hasGL = true
}

// GLCapable reports whether the host provided an OpenGL context
func (s *Surface) GLCapable() bool {
	return s.hasGL
}

// resize updates the surface dimensions and reallocates the CPU frame
func (s *Surface) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width = width
	s.height = height
	s.frame = image.NewRGBA(image.Rect(0, 0, width, height))
}
