package dispatchviz

import (
	"fmt"

	"github.com/phanxgames/dispatchviz/dom"
)

// SetStep shows one dispatch step. It is a no-op before the first SetTree.
//
// Every node shape whose tree node is in step.ComposedPath (by identity)
// gets the highlighted class; all others lose it. The event pointer moves to
// the left-center of the current target's box and the target pointer to the
// target's. When both are the same node the pointers are pushed a quarter of
// the node height apart, event above and target below.
//
// Panics if the target or current target is not in the diagram.
func (d *Diagram) SetStep(step dom.Step) {
	if d.graph == nil {
		return
	}

	inPath := make(map[*dom.Node]bool, len(step.ComposedPath))
	for _, tn := range step.ComposedPath {
		inPath[tn] = true
	}
	for _, shape := range d.scene.Query(ClassNode) {
		id, _ := shape.Attr(AttrID)
		gn, ok := d.graph.Node(id)
		shape.SetClass(ClassHighlighted, ok && gn.TreeNode != nil && inPath[gn.TreeNode])
	}

	current := d.mustResolve(step.CurrentTarget, "current target")
	target := d.mustResolve(step.Target, "target")

	eventPos := current.LeftCenter()
	targetPos := target.LeftCenter()
	if current == target {
		off := current.Height / 4
		eventPos.Y -= off
		targetPos.Y += off
	}
	d.movePointer(PointerEvent, eventPos)
	d.movePointer(PointerTarget, targetPos)
	d.stats.Steps++
}

// mustResolve finds the graph node drawn for tn.
func (d *Diagram) mustResolve(tn *dom.Node, role string) *GraphNode {
	gn, ok := d.graph.NodeByTreeNode(tn)
	if !ok {
		panic(fmt.Sprintf("dispatchviz: step %s %s is not in the diagram", role, tn.Label()))
	}
	return gn
}

// movePointer translates a pointer, tweening when PointerTween is set.
func (d *Diagram) movePointer(role PointerRole, to Vec2) {
	d.pointerTargets[role] = to
	p := d.pointers[role]
	if p == nil {
		return
	}
	if d.opts.PointerTween <= 0 {
		delete(d.tweens, role)
		p.SetPosition(to.X, to.Y)
		return
	}
	d.tweens[role] = TweenPosition(p, to.X, to.Y, d.opts.PointerTween, d.opts.PointerEase)
}
