package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"driftfield/internal/logger"
	"driftfield/pkg/config"
	"driftfield/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	lightweight := flag.Bool("lightweight", false, "Run the lightweight variant")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// Missing config is fine, defaults apply
		fmt.Println(err)
	}

	logg := logger.NewLogger(cfg.Log.Level)
	logg.Infof("starting driftfield...")

	if err := glfw.Init(); err != nil {
		log.Fatalf("failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := cfg.Engine.Width, cfg.Engine.Height
	if *lightweight {
		width, height = cfg.Lightweight.Width, cfg.Lightweight.Height
	}

	window, err := glfw.CreateWindow(width, height, "Driftfield", nil, nil)
	if err != nil {
		log.Fatalf("failed to create GLFW window: %v", err)
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if *lightweight {
		runLightweight(cfg, logg, window)
	} else {
		runEngine(cfg, logg, window)
	}
}

// runEngine drives the main adaptive engine
func runEngine(cfg *config.Config, logg *logger.Logger, window *glfw.Window) {
	surface := engine.NewSurface(cfg.Engine.Width, cfg.Engine.Height)
	surface.EnableGL()

	frames := engine.NewManualFrameSource()
	visibility := newWindowVisibility(window)

	eng := engine.New(cfg.Engine, logg, engine.Host{
		Surface:    surface,
		Clock:      engine.SystemClock{},
		Frames:     frames,
		Visibility: visibility,
	})
	defer eng.Destroy()

	// The CPU fallback renders into the surface frame; it still needs a
	// blit to reach the window
	var present *presenter
	if !eng.GPUAvailable() {
		var perr error
		present, perr = newPresenter(logg)
		if perr != nil {
			logg.Errorf("failed to initialize presenter, CPU frames will not reach the window: %v", perr)
		}
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		logg.Infof("window resized to %dx%d", w, h)
		eng.Resize(w, h)
		if present != nil {
			present.resize(w, h)
		}
	})

	eng.Start()
	logg.Infof("engine running, backend gpu=%v", eng.GPUAvailable())

	lastTitle := time.Now()
	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		frames.Pump()
		if present != nil {
			present.blit(surface.Frame())
		}

		window.SwapBuffers()
		glfw.PollEvents()

		// Surface the read-only engine stats once a second
		if time.Since(lastTitle) >= time.Second {
			window.SetTitle(fmt.Sprintf("Driftfield - tier=%s gpu=%v frames=%d",
				eng.Tier(), eng.GPUAvailable(), eng.AcceptedFrames()))
			lastTitle = time.Now()
		}
	}
}

// runLightweight drives the reduced variant: rasterizer only, every frame
func runLightweight(cfg *config.Config, logg *logger.Logger, window *glfw.Window) {
	surface := engine.NewSurface(cfg.Lightweight.Width, cfg.Lightweight.Height)

	frames := engine.NewManualFrameSource()
	eng := engine.NewLightweight(cfg.Lightweight, logg, engine.Host{
		Surface: surface,
		Clock:   engine.SystemClock{},
		Frames:  frames,
	})
	defer eng.Destroy()

	present, err := newPresenter(logg)
	if err != nil {
		log.Fatalf("failed to initialize presenter: %v", err)
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		eng.Resize(w, h)
		present.resize(w, h)
	})
	window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			eng.Suspend()
		} else {
			eng.Resume()
		}
	})

	eng.Start()

	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		frames.Pump()
		present.blit(surface.Frame())

		window.SwapBuffers()
		glfw.PollEvents()
	}
}
