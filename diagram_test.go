package dispatchviz

import (
	"math"
	"testing"

	"github.com/phanxgames/dispatchviz/dom"
)

// nodeShape returns the scene group drawn for the graph node drawn for tn.
func nodeShape(t *testing.T, d *Diagram, tn *dom.Node) *Node {
	t.Helper()
	gn, ok := d.Graph().NodeByTreeNode(tn)
	if !ok {
		t.Fatalf("%s not in graph", tn.Label())
	}
	for _, n := range d.Scene().Query(ClassNode) {
		if id, _ := n.Attr(AttrID); id == gn.ID {
			return n
		}
	}
	t.Fatalf("no shape for %s", gn.ID)
	return nil
}

func TestDiagramSetTreeLayers(t *testing.T) {
	tree, _, _, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	root := d.Scene().Root()
	want := []struct {
		name     string
		children int
	}{
		{LayerRegions, 1},
		{LayerNodes, 4},
		{LayerEdges, 3},
		{LayerPointers, 2},
	}
	if root.NumChildren() != len(want) {
		t.Fatalf("layers = %d, want %d", root.NumChildren(), len(want))
	}
	for i, w := range want {
		l := root.ChildAt(i)
		if l.Name != w.name || l.NumChildren() != w.children {
			t.Errorf("layer %d = %s with %d children, want %s with %d", i, l.Name, l.NumChildren(), w.name, w.children)
		}
		if !l.HasClass(ClassLayer) {
			t.Errorf("layer %s missing class %q", l.Name, ClassLayer)
		}
	}

	if got, want := d.Stats(), (DiagramStats{Nodes: 4, Edges: 3, Regions: 1}); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestDiagramSetTreeIsIdempotent(t *testing.T) {
	tree, _, _, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)
	first := d.ViewBox()
	oldPointer := d.Pointer(PointerEvent)

	d.SetTree(tree)

	if n := d.Scene().Root().NumChildren(); n != 4 {
		t.Errorf("layers after second SetTree = %d, want 4", n)
	}
	if n := len(d.Scene().Query(ClassNode)); n != 4 {
		t.Errorf("node shapes = %d, want 4", n)
	}
	if n := len(d.Scene().Query(ClassEdge)); n != 3 {
		t.Errorf("edge shapes = %d, want 3", n)
	}
	if d.ViewBox() != first {
		t.Errorf("ViewBox = %+v, want %+v", d.ViewBox(), first)
	}
	if !oldPointer.IsDisposed() {
		t.Error("old pointer not disposed")
	}
	if d.Pointer(PointerEvent) == oldPointer {
		t.Error("pointer not rebuilt")
	}
}

func TestDiagramNodeShapes(t *testing.T) {
	tree, div, span, sr, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	spanShape := nodeShape(t, d, span)
	if !spanShape.HasClass(ClassElement) {
		t.Error("element shape missing element class")
	}
	// Box, label and id badge.
	if spanShape.NumChildren() != 3 || !spanShape.ChildAt(2).HasClass(ClassIDBadge) {
		t.Errorf("span shape has %d children, want box, label and id badge", spanShape.NumChildren())
	}
	if divShape := nodeShape(t, d, div); divShape.NumChildren() != 2 {
		t.Errorf("div shape has %d children, want box and label", divShape.NumChildren())
	}

	srShape := nodeShape(t, d, sr)
	if !srShape.HasClass(ClassShadowRoot) {
		t.Error("shadow root shape missing shadow-root class")
	}
	mode := srShape.ChildAt(2)
	if mode.TextBlock == nil || mode.TextBlock.Content != "open" || !mode.HasClass("mode-open") {
		t.Errorf("mode label = %+v", mode.TextBlock)
	}

	gn, _ := d.Graph().NodeByTreeNode(span)
	if spanShape.X != gn.X || spanShape.Y != gn.Y {
		t.Errorf("span shape at (%v, %v), want (%v, %v)", spanShape.X, spanShape.Y, gn.X, gn.Y)
	}
	if spanShape.UserData != gn {
		t.Error("shape UserData is not its graph node")
	}
}

func TestDiagramLabelGeometry(t *testing.T) {
	tree, _, span, sr, _ := exampleTree()
	font := fixedFont{w: 6, lh: 14}
	d := New(nil, Options{Font: font})
	d.SetTree(tree)

	spanShape := nodeShape(t, d, span)
	gn, _ := d.Graph().NodeByTreeNode(span)
	badge := spanShape.ChildAt(2)
	if badge.X != gn.Width/2 || badge.Y != -gn.Height/2 {
		t.Errorf("id badge at (%v, %v), want (%v, %v)", badge.X, badge.Y, gn.Width/2, -gn.Height/2)
	}

	// The fill polygon is never jittered, so it holds the exact square.
	fill := badge.ChildAt(0).ChildAt(0)
	if fill.Part != PartFill {
		t.Fatalf("badge first part = %d, want PartFill", fill.Part)
	}
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, v := range vertsOf(fill) {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	half := IDBadgeSize / 2
	if !approxEqual(minX, -half, 1e-4) || !approxEqual(maxX, half, 1e-4) ||
		!approxEqual(minY, -half, 1e-4) || !approxEqual(maxY, half, 1e-4) {
		t.Errorf("badge square = [%v,%v]x[%v,%v], want [%v,%v] both ways", minX, maxX, minY, maxY, -half, half)
	}

	id := badge.ChildAt(1)
	if id.TextBlock == nil || id.TextBlock.Content != span.ID {
		t.Fatalf("badge text = %+v, want %q", id.TextBlock, span.ID)
	}
	if id.X != 0 || id.Y != 0 {
		t.Errorf("badge text at (%v, %v), want the badge origin", id.X, id.Y)
	}

	srShape := nodeShape(t, d, sr)
	title, mode := srShape.ChildAt(1), srShape.ChildAt(2)
	if title.X != 0 || title.Y != -font.lh/2 {
		t.Errorf("shadow root title at (%v, %v), want (0, %v)", title.X, title.Y, -font.lh/2)
	}
	if mode.X != 0 || mode.Y != font.lh/2 {
		t.Errorf("mode line at (%v, %v), want (0, %v)", mode.X, mode.Y, font.lh/2)
	}
}

func TestDiagramEdgeShapes(t *testing.T) {
	tree, _, _, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	edges := d.Scene().Query(ClassEdge)
	wantClass := []string{"edge-child", "edge-shadow-root", "edge-child"}
	for i, e := range edges {
		if !e.HasClass(wantClass[i]) {
			t.Errorf("edge %d classes = %v, want %s", i, e.Classes(), wantClass[i])
		}
		ge := d.Graph().Edges()[i]
		from, _ := e.Attr(AttrFrom)
		to, _ := e.Attr(AttrTo)
		if from != ge.From || to != ge.To {
			t.Errorf("edge %d attrs = %s->%s, want %s->%s", i, from, to, ge.From, ge.To)
		}
	}
}

func TestDiagramViewBoxFitsContent(t *testing.T) {
	tree, _, _, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	vb := d.ViewBox()
	// Nodes span x [0, 120], y [8, 352]; the region reaches y 362; outlines
	// add 0.75; padding adds 20; then outward rounding.
	want := Rect{X: -21, Y: -13, Width: 162, Height: 396}
	if vb != want {
		t.Errorf("ViewBox = %+v, want %+v", vb, want)
	}
	if got, ok := d.Scene().ViewBox(); !ok || got != vb {
		t.Errorf("scene ViewBox = %+v, %v; want %+v", got, ok, vb)
	}
	for _, gn := range d.Graph().Nodes() {
		if !vb.ContainsRect(gn.Box().Inset(DefaultViewPadding)) {
			t.Errorf("view box %+v does not contain padded %s", vb, gn.ID)
		}
	}
	for _, v := range []float64{vb.X, vb.Y, vb.Width, vb.Height} {
		if v != math.Trunc(v) {
			t.Errorf("view box %+v not snapped to whole units", vb)
		}
	}
}

func TestDiagramViewBoxIgnoresPointers(t *testing.T) {
	tree, _, _, _, p := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)
	before := d.ViewBox()

	d.SetStep(dom.Step{Target: p, CurrentTarget: p, ComposedPath: []*dom.Node{p}})

	if d.ViewBox() != before {
		t.Errorf("SetStep changed the view box: %+v -> %+v", before, d.ViewBox())
	}
}

func TestDiagramEmptyTree(t *testing.T) {
	d := New(nil, Options{})
	d.SetTree(dom.NewTree(nil))

	if d.Graph().NumNodes() != 0 {
		t.Errorf("NumNodes = %d, want 0", d.Graph().NumNodes())
	}
	if want := (Rect{X: -20, Y: -20, Width: 40, Height: 40}); d.ViewBox() != want {
		t.Errorf("ViewBox = %+v, want %+v", d.ViewBox(), want)
	}
	if d.Pointer(PointerEvent) == nil || d.Pointer(PointerTarget) == nil {
		t.Error("pointers not built for an empty tree")
	}
}

func TestDiagramSetStepBeforeSetTree(t *testing.T) {
	_, _, _, _, p := exampleTree()
	d := New(nil, Options{})

	d.SetStep(dom.Step{Target: p, CurrentTarget: p, ComposedPath: []*dom.Node{p}})

	if d.Graph() != nil || d.Pointer(PointerEvent) != nil {
		t.Error("SetStep before SetTree built something")
	}
	if d.Scene().Root().NumChildren() != 0 {
		t.Error("SetStep before SetTree touched the scene")
	}
	if d.Stats().Steps != 0 {
		t.Errorf("Steps = %d, want 0", d.Stats().Steps)
	}
}

func TestDiagramSetStepHighlightsComposedPath(t *testing.T) {
	tree, div, span, sr, p := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	d.SetStep(dom.Step{
		Target:        p,
		CurrentTarget: span,
		ComposedPath:  []*dom.Node{p, span, div},
		Phase:         dom.PhaseAtTarget,
	})

	for _, tn := range []*dom.Node{div, span, p} {
		if !nodeShape(t, d, tn).HasClass(ClassHighlighted) {
			t.Errorf("%s not highlighted", tn.Label())
		}
	}
	if nodeShape(t, d, sr).HasClass(ClassHighlighted) {
		t.Error("shadow root highlighted though it is not in the path")
	}

	spanNode, _ := d.Graph().NodeByTreeNode(span)
	pNode, _ := d.Graph().NodeByTreeNode(p)
	if got := d.PointerOffset(PointerEvent); got != spanNode.LeftCenter() {
		t.Errorf("event pointer = %v, want %v", got, spanNode.LeftCenter())
	}
	if got := d.PointerOffset(PointerTarget); got != pNode.LeftCenter() {
		t.Errorf("target pointer = %v, want %v", got, pNode.LeftCenter())
	}
	ev := d.Pointer(PointerEvent)
	if ev.X != spanNode.LeftCenter().X || ev.Y != spanNode.LeftCenter().Y {
		t.Errorf("event pointer node at (%v, %v), want jump without tween", ev.X, ev.Y)
	}
	if d.Stats().Steps != 1 {
		t.Errorf("Steps = %d, want 1", d.Stats().Steps)
	}
}

func TestDiagramSetStepClearsPreviousHighlight(t *testing.T) {
	tree, div, span, _, p := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	d.SetStep(dom.Step{Target: p, CurrentTarget: p, ComposedPath: []*dom.Node{p, span, div}})
	d.SetStep(dom.Step{Target: span, CurrentTarget: div, ComposedPath: []*dom.Node{div}})

	if nodeShape(t, d, p).HasClass(ClassHighlighted) || nodeShape(t, d, span).HasClass(ClassHighlighted) {
		t.Error("highlight from the previous step was kept")
	}
	if !nodeShape(t, d, div).HasClass(ClassHighlighted) {
		t.Error("div not highlighted")
	}
}

func TestDiagramSetStepSameNodeOffsets(t *testing.T) {
	tree, _, _, _, p := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	d.SetStep(dom.Step{Target: p, CurrentTarget: p, ComposedPath: []*dom.Node{p}})

	pNode, _ := d.Graph().NodeByTreeNode(p)
	lc := pNode.LeftCenter()
	off := pNode.Height / 4
	if got, want := d.PointerOffset(PointerEvent), (Vec2{lc.X, lc.Y - off}); got != want {
		t.Errorf("event pointer = %v, want %v", got, want)
	}
	if got, want := d.PointerOffset(PointerTarget), (Vec2{lc.X, lc.Y + off}); got != want {
		t.Errorf("target pointer = %v, want %v", got, want)
	}
}

func TestDiagramSetStepUnknownTargetPanics(t *testing.T) {
	tree, _, span, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	stranger := dom.NewElement("aside")
	expectPanic(t, "unknown target", func() {
		d.SetStep(dom.Step{Target: stranger, CurrentTarget: span})
	})
	expectPanic(t, "unknown current target", func() {
		d.SetStep(dom.Step{Target: span, CurrentTarget: stranger})
	})
}

func TestDiagramPointerTween(t *testing.T) {
	tree, div, _, _, p := exampleTree()
	d := New(nil, Options{PointerTween: 0.5})
	d.SetTree(tree)

	d.SetStep(dom.Step{Target: p, CurrentTarget: div, ComposedPath: []*dom.Node{div}})
	if !d.Animating() {
		t.Fatal("expected pointer tweens after SetStep")
	}

	d.Update(0.25)
	ev := d.Pointer(PointerEvent)
	want := d.PointerOffset(PointerEvent)
	if ev.X == want.X && ev.Y == want.Y {
		t.Error("pointer arrived before the tween finished")
	}

	d.Update(0.5)
	if d.Animating() {
		t.Error("tweens still running after their duration")
	}
	if ev.X != want.X || ev.Y != want.Y {
		t.Errorf("pointer at (%v, %v), want exactly %v", ev.X, ev.Y, want)
	}
}

func TestDiagramDispatchWalk(t *testing.T) {
	tree, _, _, _, p := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)

	steps := dom.Dispatch(p, dom.Event{Type: "click", Bubbles: true, Composed: true})
	if len(steps) == 0 {
		t.Fatal("no steps")
	}
	for _, st := range steps {
		d.SetStep(st)
		highlighted := 0
		for _, n := range d.Scene().Query(ClassNode) {
			if n.HasClass(ClassHighlighted) {
				highlighted++
			}
		}
		if highlighted != len(st.ComposedPath) {
			t.Errorf("step at %s: highlighted = %d, want %d", st.CurrentTarget.Label(), highlighted, len(st.ComposedPath))
		}
	}
	if d.Stats().Steps != len(steps) {
		t.Errorf("Steps = %d, want %d", d.Stats().Steps, len(steps))
	}
}

func TestNewInstallsDefaultStylesheet(t *testing.T) {
	d := New(nil, Options{})
	if d.Scene().Stylesheet() == nil {
		t.Fatal("no stylesheet installed")
	}

	own := NewStylesheet()
	s := NewScene()
	s.SetStylesheet(own)
	New(s, Options{})
	if s.Stylesheet() != own {
		t.Error("New replaced an existing stylesheet")
	}
}

func TestDefaultStylesheetHighlight(t *testing.T) {
	ss := DefaultStylesheet()
	plain, _ := ss.Resolve([]string{ClassLayer, ClassNode}, PartFill)
	lit, _ := ss.Resolve([]string{ClassLayer, ClassNode, ClassHighlighted}, PartFill)
	if plain == lit {
		t.Error("highlighted fill matches plain fill")
	}
	// Highlighting beats the shadow root tint.
	srLit, _ := ss.Resolve([]string{ClassShadowRoot, ClassHighlighted}, PartFill)
	if srLit != lit {
		t.Errorf("highlighted shadow root fill = %v, want %v", srLit, lit)
	}
}

// --- Interaction ---

func TestDiagramInteractClickSelectsNode(t *testing.T) {
	tree, _, span, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)
	s := d.Scene()
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	var got *GraphNode
	in := d.Interact(func(gn *GraphNode) { got = gn })

	gn, _ := d.Graph().NodeByTreeNode(span)
	s.InjectClick(gn.X, gn.Y)
	for s.processInjectedInput() {
	}
	if got != gn {
		t.Errorf("clicked node = %v, want %s", got, gn.ID)
	}

	in.Close()
	got = nil
	s.InjectClick(gn.X, gn.Y)
	for s.processInjectedInput() {
	}
	if got != nil {
		t.Error("click delivered after Close")
	}
}

func TestDiagramInteractHover(t *testing.T) {
	tree, _, span, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)
	s := d.Scene()
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	d.Interact(nil)

	gn, _ := d.Graph().NodeByTreeNode(span)
	shape := nodeShape(t, d, span)

	s.processPointer(gn.X, gn.Y, false)
	if !shape.HasClass(ClassHovered) {
		t.Error("hovered node missing hovered class")
	}
	s.processPointer(-500, -500, false)
	if shape.HasClass(ClassHovered) {
		t.Error("hovered class kept after the pointer left")
	}
}

func TestDiagramInteractDragPans(t *testing.T) {
	tree, _, _, _, _ := exampleTree()
	d := New(nil, Options{})
	d.SetTree(tree)
	s := d.Scene()
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	d.Interact(nil)

	cam := s.Camera()
	x0, y0 := cam.X, cam.Y
	s.InjectDrag(-300, -300, -200, -250, 4)
	for s.processInjectedInput() {
	}
	// The release frame carries no delta: two of three thirds are panned.
	if !approxEqual(cam.X, x0-200.0/3, 1e-6) || !approxEqual(cam.Y, y0-100.0/3, 1e-6) {
		t.Errorf("camera = (%v, %v), want (%v, %v)", cam.X, cam.Y, x0-200.0/3, y0-100.0/3)
	}
}
