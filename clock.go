package canopy

// PlaybackMode selects what the animation apply pass does each tick.
type PlaybackMode uint8

const (
	ModePlay                  PlaybackMode = iota // interpolate the active entry, then advance
	ModePause                                     // frozen; nothing is applied
	ModeReset                                     // re-apply every entry's start state, then pause
	ModeGoToTimeWithUpdate                        // snap every started entry to completion
	ModeGoToTimeWithoutUpdate                     // interpolate at CurrentTime without advancing
)

var modeNames = [...]string{
	ModePlay:                  "play",
	ModePause:                 "pause",
	ModeReset:                 "reset",
	ModeGoToTimeWithUpdate:    "goto-update",
	ModeGoToTimeWithoutUpdate: "goto",
}

func (m PlaybackMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParsePlaybackMode returns the mode for a name produced by PlaybackMode.String.
func ParsePlaybackMode(name string) (PlaybackMode, bool) {
	for i, n := range modeNames {
		if n == name {
			return PlaybackMode(i), true
		}
	}
	return ModePlay, false
}

// DefaultFrameDT is the clock step in milliseconds used until the frame
// driver reports a measured one.
const DefaultFrameDT float32 = 16.66

// Clock is the playback state shared by every animation track. All times are
// in milliseconds. It is owned by the Scene; systems receive it explicitly.
type Clock struct {
	CurrentTime float32
	LastTime    float32
	DT          float32
	TotalTime   float32
	Mode        PlaybackMode

	// Loop wraps CurrentTime back to 0 once it passes TotalTime in Play mode.
	Loop bool

	needsRecompute bool
}

// NewClock returns a clock in Play mode at time 0.
func NewClock() *Clock {
	return &Clock{
		DT:             DefaultFrameDT,
		Mode:           ModePlay,
		needsRecompute: true,
	}
}

// Invalidate requests a TotalTime recomputation on the next controller pass.
// Call it after appending sequences to an existing AnimationSet.
func (c *Clock) Invalidate() {
	c.needsRecompute = true
}

// NeedsRecompute reports whether TotalTime is stale.
func (c *Clock) NeedsRecompute() bool {
	return c.needsRecompute
}

// Play resumes playback from CurrentTime.
func (c *Clock) Play() {
	c.Mode = ModePlay
}

// Pause freezes playback.
func (c *Clock) Pause() {
	c.Mode = ModePause
}

// TogglePlay switches between Play and Pause. From a seek mode it resumes
// playback at the seek position.
func (c *Clock) TogglePlay() {
	if c.Mode == ModePlay {
		c.Mode = ModePause
		return
	}
	c.Mode = ModePlay
}

// Reset rewinds to 0. The next apply pass restores every entry's start state
// and then pauses.
func (c *Clock) Reset() {
	c.CurrentTime = 0
	c.Mode = ModeReset
}

// GoToTime seeks to t and interpolates there without advancing.
func (c *Clock) GoToTime(t float32) {
	c.CurrentTime = t
	c.Mode = ModeGoToTimeWithoutUpdate
}

// GoToTimeWithUpdate seeks to t, snapping every entry that has started by t
// to its end state. LastTime keeps the position before the seek.
func (c *Clock) GoToTimeWithUpdate(t float32) {
	c.LastTime = c.CurrentTime
	c.CurrentTime = t
	c.Mode = ModeGoToTimeWithUpdate
}

// Finished reports whether the clock has run past the end of every timeline.
func (c *Clock) Finished() bool {
	return c.CurrentTime > c.TotalTime
}

// advance moves CurrentTime forward by DT. Outside [0, TotalTime] the clock
// holds, unless Loop is set and the end has been passed.
func (c *Clock) advance() {
	if c.CurrentTime > c.TotalTime && c.Loop {
		c.LastTime = c.CurrentTime
		c.CurrentTime = 0
		return
	}
	if c.CurrentTime < 0 || c.CurrentTime > c.TotalTime {
		return
	}
	c.LastTime = c.CurrentTime
	c.CurrentTime += c.DT
}
