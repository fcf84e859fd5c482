package canopy

import "time"

// FrameTimer measures the clock step between frames. The step only changes
// once more than RequiredElapsed has passed since the last accepted frame, so
// short frames keep the previous step.
type FrameTimer struct {
	RequiredElapsed time.Duration
	last            time.Time
}

// NewFrameTimer returns a timer accepting frames at most tps times a second.
func NewFrameTimer(tps int) *FrameTimer {
	if tps <= 0 {
		tps = 60
	}
	return &FrameTimer{RequiredElapsed: time.Second / time.Duration(tps)}
}

// Step reports the milliseconds elapsed since the last accepted frame. ok is
// false on the first call and whenever less than RequiredElapsed has passed.
func (t *FrameTimer) Step(now time.Time) (dt float32, ok bool) {
	if t.last.IsZero() {
		t.last = now
		return 0, false
	}
	elapsed := now.Sub(t.last)
	if elapsed <= t.RequiredElapsed {
		return 0, false
	}
	t.last = now
	return float32(elapsed.Seconds() * 1000), true
}
