package engine

// FrameSource schedules the host's cooperative per-frame callback. A call to
// RequestFrame registers fn to run on the host's next frame and returns a
// cancel function; cancelling after the callback has fired is a no-op. The
// scheduler holds at most one pending callback at a time.
type FrameSource interface {
	RequestFrame(fn func()) (cancel func())
}

// VisibilitySource notifies subscribers of the host surface's
// foreground/background transitions
type VisibilitySource interface {
	Subscribe(fn func(visible bool)) (unsubscribe func())
}

// ManualFrameSource is a host frame pump driven by hand, used in tests and
// by hosts whose render loop polls rather than calls back.
type ManualFrameSource struct {
	pending   func()
	pendingID uint64
	seq       uint64
}

// NewManualFrameSource creates an empty frame pump
func NewManualFrameSource() *ManualFrameSource {
	return &ManualFrameSource{}
}

// RequestFrame registers fn for the next Pump call
func (m *ManualFrameSource) RequestFrame(fn func()) (cancel func()) {
	m.seq++
	id := m.seq
	m.pending = fn
	m.pendingID = id
	return func() {
		if m.pendingID == id {
			m.pending = nil
		}
	}
}

// Pending reports whether a callback is currently scheduled
func (m *ManualFrameSource) Pending() bool {
	return m.pending != nil
}

// Pump fires the pending callback, if any. The callback is cleared before it
// runs so it can schedule the next frame.
func (m *ManualFrameSource) Pump() {
	fn := m.pending
	m.pending = nil
	if fn != nil {
		fn()
	}
}

// ManualVisibility is a hand-driven visibility signal for tests and
// poll-based hosts
type ManualVisibility struct {
	subscribers map[uint64]func(visible bool)
	seq         uint64
	visible     bool
}

// NewManualVisibility creates a visibility source that starts visible
func NewManualVisibility() *ManualVisibility {
	return &ManualVisibility{
		subscribers: make(map[uint64]func(visible bool)),
		visible:     true,
	}
}

// Subscribe registers fn for visibility transitions
func (m *ManualVisibility) Subscribe(fn func(visible bool)) (unsubscribe func()) {
	m.seq++
	id := m.seq
	m.subscribers[id] = fn
	return func() {
		delete(m.subscribers, id)
	}
}

// Set transitions the visibility state, notifying subscribers on change
func (m *ManualVisibility) Set(visible bool) {
	if m.visible == visible {
		return
	}
	m.visible = visible
	for _, fn := range m.subscribers {
		fn(visible)
	}
}
