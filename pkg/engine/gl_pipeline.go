package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Floats per particle in the static attribute buffer: pos(2) vel(2) size(1) color(3)
const particleStride = 8

// GPUPipeline renders particles as point sprites through a shader program.
// The static per-particle attributes (seed position, velocity, size, color)
// are uploaded once at initialization; each frame streams only the life
// values and a time uniform, so the vertex stage advances positions entirely
// on-device. Shader compilation is synchronous and happens exactly once per
// instance, never on the render path.
type GPUPipeline struct {
	surface  *Surface
	clock    Clock
	stepRate float64 // Host ticks per second; scales uTime to tick units

	program    uint32
	vao        uint32
	staticVBO  uint32
	lifeVBO    uint32
	count      int
	lifeBuf    []float32
	startedAt  time.Time
	boundsLoc  int32
	timeLoc    int32
	released   bool
	seededOnce bool
}

// NewGPUPipeline attempts once to acquire a shader-capable context and build
// the particle program. Any failure (context unavailable, shader compile or
// link error) is returned to the selector, which falls back permanently to
// the rasterizer.
func NewGPUPipeline(surface *Surface, clock Clock, stepRate int) (*GPUPipeline, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	program, err := createShaderProgram(particleVertexShaderSource, particleFragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	p := &GPUPipeline{
		surface:   surface,
		clock:     clock,
		stepRate:  float64(stepRate),
		program:   program,
		startedAt: clock.Now(),
	}
	if p.stepRate <= 0 {
		p.stepRate = 60
	}

	p.boundsLoc = gl.GetUniformLocation(program, gl.Str("uBounds\x00"))
	p.timeLoc = gl.GetUniformLocation(program, gl.Str("uTime\x00"))

	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.staticVBO)
	gl.GenBuffers(1, &p.lifeVBO)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	return p, nil
}

// Name returns the backend identifier
func (p *GPUPipeline) Name() string {
	return BackendGPU
}

// seed uploads the static attribute buffer and wires the vertex layout.
// Runs once, on the first submitted frame.
func (p *GPUPipeline) seed(ps *ParticleSystem) {
	particles := ps.Particles()
	p.count = len(particles)
	p.lifeBuf = make([]float32, p.count)

	data := make([]float32, 0, p.count*particleStride)
	for i := range particles {
		pt := &particles[i]
		data = append(data,
			float32(pt.X), float32(pt.Y),
			float32(pt.VX), float32(pt.VY),
			float32(pt.Size),
			float32(pt.Color.R)/255, float32(pt.Color.G)/255, float32(pt.Color.B)/255,
		)
	}

	gl.BindVertexArray(p.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, p.staticVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(particleStride * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, gl.PtrOffset(4*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(3)

	gl.BindBuffer(gl.ARRAY_BUFFER, p.lifeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, p.count*4, nil, gl.STREAM_DRAW)
	gl.VertexAttribPointer(4, 1, gl.FLOAT, false, 4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(4)

	gl.BindVertexArray(0)
	p.seededOnce = true
}

// Submit draws the prefix of the particle sequence. Only the life buffer and
// the time uniform change per frame.
func (p *GPUPipeline) Submit(ps *ParticleSystem, fraction float64) error {
	if p.released {
		return ErrDestroyed
	}
	if !p.seededOnce {
		p.seed(ps)
	}

	particles := ps.Particles()
	n := ps.Prefix(fraction)
	if n > p.count {
		n = p.count
	}
	for i := 0; i < n; i++ {
		p.lifeBuf[i] = float32(particles[i].Life)
	}

	width, height := p.surface.Size()
	elapsedTicks := p.clock.Now().Sub(p.startedAt).Seconds() * p.stepRate

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(
		float32(background.R)/255,
		float32(background.G)/255,
		float32(background.B)/255,
		1,
	)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(p.program)
	gl.Uniform2f(p.boundsLoc, float32(width), float32(height))
	gl.Uniform1f(p.timeLoc, float32(elapsedTicks))

	gl.BindVertexArray(p.vao)
	if n > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, p.lifeVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, gl.Ptr(p.lifeBuf))
		gl.DrawArrays(gl.POINTS, 0, int32(n))
	}
	gl.BindVertexArray(0)

	return nil
}

// Resize updates the viewport on the next submit; bounds are read from the
// surface each frame
func (p *GPUPipeline) Resize(width, height int) {}

// Release frees all GPU resources
func (p *GPUPipeline) Release() {
	if p.released {
		return
	}
	p.released = true
	gl.DeleteBuffers(1, &p.staticVBO)
	gl.DeleteBuffers(1, &p.lifeVBO)
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// Check for linking errors
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, fmt.Errorf("shader program linking failed: %v", log)
	}

	// Detach and delete shaders since they're linked to the program now
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	// Check for compilation errors
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, fmt.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}
