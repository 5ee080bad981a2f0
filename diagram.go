package dispatchviz

import "github.com/tanema/gween/ease"

// DefaultViewPadding is the space kept between drawn content and the edge of
// the fitted view box.
const DefaultViewPadding = 20.0

// DefaultFontSize is the label size used when Options.Font is nil.
const DefaultFontSize = 13.0

// Options configures a Diagram. The zero value is ready to use.
type Options struct {
	// Layout positions graph nodes and edges. Defaults to TreeLayout.
	Layout Layout
	// Font draws labels. Defaults to DefaultFont(DefaultFontSize).
	Font Font
	// Sketch controls the hand-drawn look.
	Sketch SketchOptions
	// ShadowTreePadding is the per-depth region padding. Defaults to
	// ShadowTreePadding.
	ShadowTreePadding float64
	// ViewPadding grows the fitted view box. Defaults to DefaultViewPadding.
	ViewPadding float64
	// PointerTween animates pointer moves over this many seconds. 0 jumps.
	PointerTween float32
	// PointerEase is the pointer easing curve. Defaults to ease.OutCubic.
	PointerEase ease.TweenFunc
	// Stylesheet is installed on the scene when it has none. Defaults to
	// DefaultStylesheet.
	Stylesheet *Stylesheet
}

func (o Options) withDefaults() Options {
	if o.Layout == nil {
		o.Layout = &TreeLayout{}
	}
	if o.Font == nil {
		o.Font = DefaultFont(DefaultFontSize)
	}
	if o.ShadowTreePadding <= 0 {
		o.ShadowTreePadding = ShadowTreePadding
	}
	if o.ViewPadding <= 0 {
		o.ViewPadding = DefaultViewPadding
	}
	if o.PointerEase == nil {
		o.PointerEase = ease.OutCubic
	}
	if o.Stylesheet == nil {
		o.Stylesheet = DefaultStylesheet()
	}
	return o
}

// DiagramStats counts what the current diagram shows.
type DiagramStats struct {
	Nodes, Edges, Regions int
	Steps                 int // SetStep calls applied since the last SetTree
}

// Diagram draws a tree snapshot into a Scene and tracks event dispatch over
// it. SetTree rebuilds everything; SetStep only moves pointers and toggles
// highlighting.
type Diagram struct {
	scene *Scene
	opts  Options

	graph   *Graph
	viewBox Rect
	stats   DiagramStats

	pointers       map[PointerRole]*Node
	pointerTargets map[PointerRole]Vec2
	tweens         map[PointerRole]*TweenGroup
}

// New creates a diagram drawing into scene. A nil scene gets a fresh one.
func New(scene *Scene, opts Options) *Diagram {
	if scene == nil {
		scene = NewScene()
	}
	opts = opts.withDefaults()
	if scene.Stylesheet() == nil {
		scene.SetStylesheet(opts.Stylesheet)
	}
	return &Diagram{
		scene:          scene,
		opts:           opts,
		pointers:       make(map[PointerRole]*Node),
		pointerTargets: make(map[PointerRole]Vec2),
		tweens:         make(map[PointerRole]*TweenGroup),
	}
}

// Scene returns the scene the diagram draws into.
func (d *Diagram) Scene() *Scene {
	return d.scene
}

// Graph returns the current graph, or nil before the first SetTree.
func (d *Diagram) Graph() *Graph {
	return d.graph
}

// ViewBox returns the view box fitted by the last SetTree.
func (d *Diagram) ViewBox() Rect {
	return d.viewBox
}

// Stats returns counts for the current diagram.
func (d *Diagram) Stats() DiagramStats {
	return d.stats
}

// Pointer returns the marker node for role, or nil before the first SetTree.
func (d *Diagram) Pointer(role PointerRole) *Node {
	return d.pointers[role]
}

// PointerOffset returns the translation most recently assigned to role. It
// is the pointer's final position even while a tween is still running.
func (d *Diagram) PointerOffset(role PointerRole) Vec2 {
	return d.pointerTargets[role]
}

// Update advances pointer tweens by dt seconds.
func (d *Diagram) Update(dt float32) {
	for role, tw := range d.tweens {
		tw.Update(dt)
		if tw.Done {
			delete(d.tweens, role)
		}
	}
}

// Animating reports whether any pointer tween is still running.
func (d *Diagram) Animating() bool {
	return len(d.tweens) > 0
}

// DefaultStylesheet returns the stock diagram colors.
func DefaultStylesheet() *Stylesheet {
	ink := RGB(0x2b, 0x2b, 0x2b)
	return NewStylesheet(
		StyleRule{Part: PartFill, Color: ColorWhite},
		StyleRule{Part: PartStroke, Color: ink},
		StyleRule{Part: PartText, Color: ink},
		StyleRule{Class: ClassShadowTree, Part: PartFill, Color: Color{0.80, 0.76, 0.95, 0.35}},
		StyleRule{Class: "mode-closed", Part: PartFill, Color: Color{0.95, 0.78, 0.78, 0.35}},
		StyleRule{Class: ClassShadowTree, Part: PartStroke, Color: RGB(0x8e, 0x7c, 0xc3)},
		StyleRule{Class: ClassShadowRoot, Part: PartFill, Color: RGB(0xe8, 0xe2, 0xfa)},
		StyleRule{Class: ClassHighlighted, Part: PartFill, Color: RGB(0xff, 0xe0, 0x82)},
		StyleRule{Class: ClassHovered, Part: PartStroke, Color: RGB(0x15, 0x65, 0xc0)},
		StyleRule{Class: "mode-open", Part: PartText, Color: RGB(0x2e, 0x7d, 0x32)},
		StyleRule{Class: "mode-closed", Part: PartText, Color: RGB(0xc6, 0x28, 0x28)},
		StyleRule{Class: ClassIDBadge, Part: PartFill, Color: RGB(0xbb, 0xde, 0xfb)},
		StyleRule{Class: "edge-shadow-root", Part: PartStroke, Color: RGB(0x7e, 0x57, 0xc2)},
		StyleRule{Class: "edge-assigned-element", Part: PartStroke, Color: RGB(0x00, 0x89, 0x7b)},
		StyleRule{Class: pointerClass(PointerEvent), Part: PartFill, Color: RGB(0xfb, 0x8c, 0x00)},
		StyleRule{Class: pointerClass(PointerTarget), Part: PartFill, Color: RGB(0xe5, 0x39, 0x35)},
	)
}
