package dispatchviz

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a playback script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences player moves and screenshots across frames, for
// unattended captures of a dispatch. Actions: "next", "prev", "first",
// "last", "wait" (frames), "screenshot" (label) and "capture-all", which
// screenshots every step from the first to the last.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	capturing bool
	shot      bool
	done      bool
}

// LoadScript parses a JSON playback script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "next", "prev", "first", "last", "wait", "screenshot", "capture-all":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// CaptureAllScript returns a runner that screenshots every step.
func CaptureAllScript() *ScriptRunner {
	return &ScriptRunner{steps: []scriptStep{{Action: "capture-all"}}}
}

// Done reports whether all actions have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Update advances the runner by one frame. Call it once per tick.
func (r *ScriptRunner) Update(p *Player, s *Scene) {
	if r.done {
		return
	}
	// Let animations and queued screenshots settle before advancing.
	if p.Diagram().Animating() || s.Camera().Animating() || s.PendingScreenshots() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.capturing {
		// Shoot on one frame, advance on the next, so each capture shows
		// the step it is labeled with.
		if !r.shot {
			s.Screenshot(fmt.Sprintf("step-%03d", p.Index()))
			r.shot = true
			return
		}
		r.shot = false
		if !p.Next() {
			r.capturing = false
			r.finishIfDrained()
		}
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "next":
		p.Next()
	case "prev":
		p.Prev()
	case "first":
		p.First()
	case "last":
		p.Last()
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "capture-all":
		p.First()
		r.capturing = p.Len() > 0
	}

	r.finishIfDrained()
}

func (r *ScriptRunner) finishIfDrained() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.capturing {
		r.done = true
	}
}
