package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// windowVisibility adapts GLFW's iconify signal to the engine's visibility
// source. Iconified counts as hidden; restore counts as visible.
type windowVisibility struct {
	subscribers map[uint64]func(visible bool)
	seq         uint64
}

// newWindowVisibility wires the iconify callback of the window
func newWindowVisibility(window *glfw.Window) *windowVisibility {
	v := &windowVisibility{
		subscribers: make(map[uint64]func(visible bool)),
	}
	window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		for _, fn := range v.subscribers {
			fn(!iconified)
		}
	})
	return v
}

// Subscribe registers fn for visibility transitions
func (v *windowVisibility) Subscribe(fn func(visible bool)) (unsubscribe func()) {
	v.seq++
	id := v.seq
	v.subscribers[id] = fn
	return func() {
		delete(v.subscribers, id)
	}
}
