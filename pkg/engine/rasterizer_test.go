package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixelAt(s *Surface, x, y int) (r, g, b uint8) {
	i := s.Frame().PixOffset(x, y)
	return s.Frame().Pix[i], s.Frame().Pix[i+1], s.Frame().Pix[i+2]
}

func TestRasterizerDrawsDisc(t *testing.T) {
	surf := NewSurface(100, 100)
	ps := newTestSystem(t, 1, BoundaryWrap)
	ps.Particles()[0] = Particle{X: 50, Y: 50, Size: 4, Color: palette[0], Life: 1}

	r := NewRasterizer(surf, true)
	require.NoError(t, r.Submit(ps, 1))

	cr, cg, cb := pixelAt(surf, 50, 50)
	assert.NotEqual(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{cr, cg, cb},
		"disc center should differ from the background")

	// Far corner stays background
	fr, fg, fb := pixelAt(surf, 5, 5)
	assert.Equal(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{fr, fg, fb})
}

func TestRasterizerIsSideEffectFree(t *testing.T) {
	surf := NewSurface(100, 100)
	ps := newTestSystem(t, 20, BoundaryWrap)

	before := make([]Particle, ps.Len())
	copy(before, ps.Particles())

	r := NewRasterizer(surf, true)
	require.NoError(t, r.Submit(ps, 1))

	first := make([]uint8, len(surf.Frame().Pix))
	copy(first, surf.Frame().Pix)

	// Repeated renders without an intervening step change nothing
	require.NoError(t, r.Submit(ps, 1))
	require.NoError(t, r.Submit(ps, 0.4))
	require.NoError(t, r.Submit(ps, 1))

	assert.Equal(t, before, ps.Particles())
	assert.Equal(t, first, surf.Frame().Pix)
}

func TestRasterizerLifeFade(t *testing.T) {
	surf := NewSurface(100, 100)
	ps := newTestSystem(t, 1, BoundaryWrap)
	ps.Particles()[0] = Particle{X: 50, Y: 50, Size: 4, Color: palette[0], Life: 0.001, Opacity: 0.7}

	// Life-based fade: a nearly expired particle is nearly invisible
	r := NewRasterizer(surf, true)
	require.NoError(t, r.Submit(ps, 1))
	fadedR, fadedG, fadedB := pixelAt(surf, 50, 50)
	assert.InDelta(t, background.R, fadedR, 2)
	assert.InDelta(t, background.G, fadedG, 2)
	assert.InDelta(t, background.B, fadedB, 2)

	// Fixed opacity: the same particle draws at its creation opacity
	fixed := NewRasterizer(surf, false)
	require.NoError(t, fixed.Submit(ps, 1))
	br, bg, bb := pixelAt(surf, 50, 50)
	assert.NotEqual(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{br, bg, bb})
}

func TestRasterizerClearsBetweenFrames(t *testing.T) {
	surf := NewSurface(100, 100)
	ps := newTestSystem(t, 1, BoundaryWrap)
	ps.Particles()[0] = Particle{X: 20, Y: 20, Size: 4, Color: palette[1], Life: 1}

	r := NewRasterizer(surf, true)
	require.NoError(t, r.Submit(ps, 1))

	ps.Particles()[0].X = 80
	ps.Particles()[0].Y = 80
	require.NoError(t, r.Submit(ps, 1))

	or, og, ob := pixelAt(surf, 20, 20)
	assert.Equal(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{or, og, ob},
		"previous position should be cleared")
}

func TestRasterizerHonorsRenderFraction(t *testing.T) {
	surf := NewSurface(100, 100)
	ps := newTestSystem(t, 2, BoundaryWrap)
	ps.Particles()[0] = Particle{X: 25, Y: 25, Size: 4, Color: palette[0], Life: 1}
	ps.Particles()[1] = Particle{X: 75, Y: 75, Size: 4, Color: palette[0], Life: 1}

	r := NewRasterizer(surf, true)
	require.NoError(t, r.Submit(ps, 0.5))

	pr, pg, pb := pixelAt(surf, 25, 25)
	assert.NotEqual(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{pr, pg, pb})

	sr, sg, sb := pixelAt(surf, 75, 75)
	assert.Equal(t, [3]uint8{background.R, background.G, background.B}, [3]uint8{sr, sg, sb},
		"particle beyond the prefix should not render")
}
