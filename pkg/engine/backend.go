package engine

import (
	"errors"

	"driftfield/internal/logger"
)

// Backend errors
var (
	// ErrGPUUnavailable is returned when the GPU pipeline cannot be acquired
	ErrGPUUnavailable = errors.New("backend: gpu pipeline unavailable")
	// ErrDestroyed is returned for operations on a destroyed engine
	ErrDestroyed = errors.New("engine: destroyed")
)

// Backend name constants
const (
	// BackendGPU is the shader-based point-sprite pipeline
	BackendGPU = "gpu"
	// BackendRaster is the CPU immediate-mode rasterizer
	BackendRaster = "raster"
)

// Backend renders one frame of the particle sequence. Exactly one backend is
// chosen per engine instance at initialization and never swapped afterwards,
// even if GPU capability later changes; mixing backends across frames would
// produce visible inconsistency.
//
// Submit must never mutate particle state.
type Backend interface {
	// Name returns the backend identifier
	Name() string

	// Submit draws the first Prefix(fraction) particles of the sequence
	Submit(ps *ParticleSystem, fraction float64) error

	// Resize adjusts the backend to new surface dimensions
	Resize(width, height int)

	// Release frees all backend resources. The backend must not be used
	// after Release.
	Release()
}

// selectBackend probes once for a GPU-shader-capable context and falls back
// permanently to the immediate-mode rasterizer on any failure. It never
// returns an error: GPU acquisition failure is non-fatal by design and is
// never retried.
func selectBackend(surf *Surface, clock Clock, enableGPU bool, stepRate int, log *logger.Logger) (Backend, bool) {
	if enableGPU {
		if !surf.GLCapable() {
			log.Debugf("no GL context on surface, using %s backend", BackendRaster)
		} else {
			pipeline, err := NewGPUPipeline(surf, clock, stepRate)
			if err == nil {
				log.Infof("using %s backend", BackendGPU)
				return pipeline, true
			}
			log.Warnf("gpu probe failed, falling back to %s backend: %v", BackendRaster, err)
		}
	}
	return NewRasterizer(surf, true), false
}
