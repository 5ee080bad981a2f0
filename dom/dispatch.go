package dom

// Phase is the event phase a dispatch step runs in.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbling:
		return "bubbling"
	default:
		return "none"
	}
}

// Event describes the event being dispatched.
type Event struct {
	Type     string
	Bubbles  bool
	Composed bool
}

// Step is one listener invocation during dispatch: the event as observed by
// a listener registered on CurrentTarget.
type Step struct {
	Target        *Node
	CurrentTarget *Node
	ComposedPath  []*Node
	Phase         Phase
}

// pathItem is one entry of the event path.
type pathItem struct {
	invocationTarget *Node
	shadowAdjusted   *Node // non-nil where the item is a target position
	rootOfClosedTree bool
	slotInClosedTree bool
}

// Dispatch simulates dispatching ev at target and returns every step in
// invocation order: the capture pass from the outermost node inward, then
// the bubble pass back out.
func Dispatch(target *Node, ev Event) []Step {
	if target == nil {
		return nil
	}
	path := eventPath(target, ev)

	var steps []Step
	for i := len(path) - 1; i >= 0; i-- {
		item := &path[i]
		phase := PhaseCapturing
		if item.shadowAdjusted != nil {
			phase = PhaseAtTarget
		}
		steps = append(steps, newStep(path, i, target, phase))
	}
	for i := 0; i < len(path); i++ {
		item := &path[i]
		phase := PhaseBubbling
		if item.shadowAdjusted != nil {
			phase = PhaseAtTarget
		} else if !ev.Bubbles {
			continue
		}
		steps = append(steps, newStep(path, i, target, phase))
	}
	return steps
}

func newStep(path []pathItem, index int, target *Node, phase Phase) Step {
	current := path[index].invocationTarget
	return Step{
		Target:        Retarget(target, current),
		CurrentTarget: current,
		ComposedPath:  composedPath(path, index),
		Phase:         phase,
	}
}

// eventPath builds the event path starting at target.
func eventPath(target *Node, ev Event) []pathItem {
	path := []pathItem{newPathItem(target, target)}
	for parent := getParent(target, target, ev); parent != nil; {
		// A host that target is retargeted to is itself a target position.
		var adjusted *Node
		if Retarget(target, parent) == parent {
			adjusted = parent
		}
		path = append(path, newPathItem(parent, adjusted))
		parent = getParent(parent, target, ev)
	}
	return path
}

func newPathItem(n, adjusted *Node) pathItem {
	return pathItem{
		invocationTarget: n,
		shadowAdjusted:   adjusted,
		rootOfClosedTree: n.Kind == KindShadowRoot && n.Mode == ModeClosed,
		slotInClosedTree: n.IsSlot() && n.InClosedShadowTree(),
	}
}

// getParent implements the get-the-parent rules for nodes and shadow roots.
func getParent(n, target *Node, ev Event) *Node {
	if n.Kind == KindShadowRoot {
		if !ev.Composed && target.Root() == n {
			return nil
		}
		return n.host
	}
	if slot := n.AssignedSlot(); slot != nil {
		return slot
	}
	return n.parent
}

// Retarget returns a retargeted against b: while a's root is a shadow root
// that does not contain b, a is replaced by that root's host.
func Retarget(a, b *Node) *Node {
	for {
		root := a.Root()
		if root.Kind != KindShadowRoot || root.IsShadowIncludingInclusiveAncestorOf(b) {
			return a
		}
		a = root.host
	}
}

// composedPath returns the composed path as seen by a listener at
// path[current], hiding nodes inside closed shadow trees the current target
// cannot see.
func composedPath(path []pathItem, current int) []*Node {
	currentTarget := path[current].invocationTarget
	composed := []*Node{currentTarget}

	hiddenLevel := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].rootOfClosedTree {
			hiddenLevel++
		}
		if i == current {
			break
		}
		if path[i].slotInClosedTree {
			hiddenLevel--
		}
	}

	level, maxLevel := hiddenLevel, hiddenLevel
	for i := current - 1; i >= 0; i-- {
		if path[i].rootOfClosedTree {
			level++
		}
		if level <= maxLevel {
			composed = append([]*Node{path[i].invocationTarget}, composed...)
		}
		if path[i].slotInClosedTree {
			level--
			if level < maxLevel {
				maxLevel = level
			}
		}
	}

	level, maxLevel = hiddenLevel, hiddenLevel
	for i := current + 1; i < len(path); i++ {
		if path[i].slotInClosedTree {
			level++
		}
		if level <= maxLevel {
			composed = append(composed, path[i].invocationTarget)
		}
		if path[i].rootOfClosedTree {
			level--
			if level < maxLevel {
				maxLevel = level
			}
		}
	}
	return composed
}
