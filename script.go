package canopy

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of a playback script.
//
// Actions: play, pause, toggle, reset, goto, goto-update and loop publish
// the matching PlaybackCommand with Time; wait idles for Frames ticks;
// screenshot queues a capture named Label; quit ends Run.
type ScriptStep struct {
	Action string  `yaml:"action"`
	Time   float32 `yaml:"time,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Label  string  `yaml:"label,omitempty"`
}

type playbackScript struct {
	Steps []ScriptStep `yaml:"steps"`
}

var scriptCommands = map[string]PlaybackCommand{
	"play":        CmdPlay,
	"pause":       CmdPause,
	"toggle":      CmdTogglePlay,
	"reset":       CmdReset,
	"goto":        CmdGoToTime,
	"goto-update": CmdGoToTimeWithUpdate,
	"loop":        CmdSetLoop,
}

// ScriptRunner feeds playback commands and screenshots to a Scene one tick
// at a time, for reproducible captures and automated checks. Attach it with
// Scene.SetScript.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML (or JSON) script of the form {steps: [...]}.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script playbackScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("canopy: parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("canopy: parse script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "screenshot", "quit":
		default:
			if _, ok := scriptCommands[st.Action]; !ok {
				return nil, fmt.Errorf("canopy: parse script: step %d: unknown action %q", i, st.Action)
			}
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScript attaches a script; its next step runs at the start of every Tick.
func (s *Scene) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step runs at most one step. It returns ebiten.Termination for quit.
func (r *ScriptRunner) step(s *Scene) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "quit":
		r.done = true
		return ebiten.Termination
	default:
		s.Publish(PlaybackEvent{Command: scriptCommands[st.Action], Time: st.Time})
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}
