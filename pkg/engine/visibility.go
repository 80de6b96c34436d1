package engine

// VisibilityController suspends and resumes the frame scheduler as the host
// surface moves to background and foreground. Particle state is untouched
// while hidden; resuming resets the scheduler's timing so the first resumed
// frame advances by one ordinary tick, never by the elapsed hidden duration.
type VisibilityController struct {
	unsubscribe func()
}

// bindVisibility subscribes onChange to the host's visibility signal. A nil
// source yields a detached controller; the host then drives suspend/resume
// directly.
func bindVisibility(src VisibilitySource, onChange func(visible bool)) *VisibilityController {
	vc := &VisibilityController{}
	if src != nil {
		vc.unsubscribe = src.Subscribe(onChange)
	}
	return vc
}

// Detach removes the visibility subscription. Safe to call repeatedly.
func (vc *VisibilityController) Detach() {
	if vc.unsubscribe != nil {
		vc.unsubscribe()
		vc.unsubscribe = nil
	}
}
