package canopy

import "github.com/yohamta/donburi/features/events"

// PlaybackCommand is an external request to change the clock, such as a
// button press or key binding.
type PlaybackCommand uint8

const (
	CmdTogglePlay PlaybackCommand = iota
	CmdPlay
	CmdPause
	CmdReset
	CmdGoToTime           // seek to Time, interpolating
	CmdGoToTimeWithUpdate // seek to Time, snapping started entries
	CmdSetLoop            // Loop = Time != 0
)

// PlaybackEvent carries a command and its time argument in milliseconds.
type PlaybackEvent struct {
	Command PlaybackCommand
	Time    float32
}

// PlaybackEvents queues playback commands on a scene's world. Events
// published during a tick are applied in that tick's housekeeping pass, after
// the animation systems have run.
var PlaybackEvents = events.NewEventType[PlaybackEvent]()

// apply performs ev on c.
func (ev PlaybackEvent) apply(c *Clock) {
	switch ev.Command {
	case CmdTogglePlay:
		c.TogglePlay()
	case CmdPlay:
		c.Play()
	case CmdPause:
		c.Pause()
	case CmdReset:
		c.Reset()
	case CmdGoToTime:
		c.GoToTime(ev.Time)
	case CmdGoToTimeWithUpdate:
		c.GoToTimeWithUpdate(ev.Time)
	case CmdSetLoop:
		c.Loop = ev.Time != 0
	}
}
