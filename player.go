package dispatchviz

import "github.com/phanxgames/dispatchviz/dom"

// Player steps a diagram back and forth through a recorded dispatch.
type Player struct {
	diagram *Diagram
	steps   []dom.Step
	index   int
}

// NewPlayer creates a player driving d.
func NewPlayer(d *Diagram) *Player {
	return &Player{diagram: d, index: -1}
}

// Diagram returns the driven diagram.
func (p *Player) Diagram() *Diagram {
	return p.diagram
}

// Load draws tree and shows the first of steps, if any.
func (p *Player) Load(tree *dom.Tree, steps []dom.Step) {
	p.diagram.SetTree(tree)
	p.steps = steps
	p.index = -1
	p.First()
}

// Len returns the number of steps.
func (p *Player) Len() int {
	return len(p.steps)
}

// Index returns the shown step index, or -1 when none is shown.
func (p *Player) Index() int {
	return p.index
}

// Current returns the shown step.
func (p *Player) Current() (dom.Step, bool) {
	if p.index < 0 {
		return dom.Step{}, false
	}
	return p.steps[p.index], true
}

// Next shows the following step. Returns false at the end.
func (p *Player) Next() bool {
	return p.show(p.index + 1)
}

// Prev shows the preceding step. Returns false at the start.
func (p *Player) Prev() bool {
	return p.show(p.index - 1)
}

// First shows the first step.
func (p *Player) First() bool {
	return p.show(0)
}

// Last shows the final step.
func (p *Player) Last() bool {
	return p.show(len(p.steps) - 1)
}

func (p *Player) show(i int) bool {
	if i < 0 || i >= len(p.steps) || i == p.index {
		return false
	}
	p.index = i
	p.diagram.SetStep(p.steps[i])
	return true
}

// Seek shows the next step, wrapping around, whose current target is tn.
// Returns false when no step is dispatched at tn.
func (p *Player) Seek(tn *dom.Node) bool {
	n := len(p.steps)
	for k := 1; k <= n; k++ {
		i := (p.index + k) % n
		if p.steps[i].CurrentTarget == tn {
			if i == p.index {
				return true
			}
			return p.show(i)
		}
	}
	return false
}
