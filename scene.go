package dispatchviz

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, the camera, the
// stylesheet and render buffers. It is the drawing surface diagrams render
// into.
type Scene struct {
	root       *Node
	camera     *Camera
	stylesheet *Stylesheet
	debug      bool

	// View box: the world-space region the camera keeps fitted to the screen.
	viewBox      Rect
	hasViewBox   bool
	viewBoxDirty bool

	// FitDuration animates camera refits after SetViewBox when > 0 (seconds).
	FitDuration float32

	// Render state
	commands      []RenderCommand
	activeClasses []string
	viewTransform [6]float64

	onFrameStats func(FrameStats)

	// Input
	pointer      pointerState
	handlers     handlerRegistry
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	hitBuf       []*Node

	// ScreenshotDir is the directory Screenshot writes PNGs into.
	ScreenshotDir   string
	screenshotQueue []string
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	return &Scene{
		root:          NewGroup("root"),
		camera:        newCamera(Rect{}),
		commands:      make([]RenderCommand, 0, defaultCommandCap),
		viewTransform: identityTransform,
		ScreenshotDir: "screenshots",
		dragDeadZone:  defaultDragDeadZone,
	}
}

// Root returns the scene's root group node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Clear disposes every node under the root. Safe to call on an empty scene.
func (s *Scene) Clear() {
	for s.root.NumChildren() > 0 {
		s.root.ChildAt(s.root.NumChildren() - 1).Dispose()
	}
	s.pointer.hoverNode = nil
	s.pointer.hitNode = nil
}

// Query returns every node carrying class, in tree order.
func (s *Scene) Query(class string) []*Node {
	var out []*Node
	s.root.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// QueryFirst returns the first node carrying class, or nil.
func (s *Scene) QueryFirst(class string) *Node {
	var found *Node
	s.root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.HasClass(class) {
			found = n
			return false
		}
		return true
	})
	return found
}

// SetViewBox sets the world-space region the camera keeps fitted inside the
// screen.
func (s *Scene) SetViewBox(r Rect) {
	s.viewBox = r
	s.hasViewBox = true
	s.viewBoxDirty = true
}

// ViewBox returns the current view box and whether one was set.
func (s *Scene) ViewBox() (Rect, bool) {
	return s.viewBox, s.hasViewBox
}

// SetStylesheet replaces the stylesheet used to color nodes by class.
func (s *Scene) SetStylesheet(ss *Stylesheet) {
	s.stylesheet = ss
}

// Stylesheet returns the current stylesheet, which may be nil.
func (s *Scene) Stylesheet() *Stylesheet {
	return s.stylesheet
}

// OnFrameStats registers a callback invoked after every Draw with that
// frame's stats.
func (s *Scene) OnFrameStats(fn func(FrameStats)) {
	s.onFrameStats = fn
}

// Update refreshes world transforms, dispatches pointer input and advances
// the camera.
func (s *Scene) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.processInput()
	s.camera.update(dt)
}

// Draw fits the camera to the screen, traverses the scene tree, and submits
// draw calls to the given screen image.
func (s *Scene) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	s.setViewport(Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())})

	vp := s.camera.Viewport
	target := screen.SubImage(image.Rect(
		int(vp.X), int(vp.Y),
		int(vp.X+vp.Width), int(vp.Y+vp.Height),
	)).(*ebiten.Image)

	var stats FrameStats
	var t0 time.Time
	timed := s.debug || s.onFrameStats != nil
	if timed {
		t0 = time.Now()
	}

	s.buildCommands()

	if timed {
		stats.TraverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.submit(target)

	if timed {
		stats.SubmitTime = time.Since(t0)
		collectStats(s.commands, &stats)
		s.debugLog(stats)
		if s.onFrameStats != nil {
			s.onFrameStats(stats)
		}
	}

	s.flushScreenshots(screen)
}

// setViewport resizes the camera and refits the view box when either changed.
func (s *Scene) setViewport(vp Rect) {
	resized := vp != s.camera.Viewport
	s.camera.setViewport(vp)
	if !s.hasViewBox || (!resized && !s.viewBoxDirty) {
		return
	}
	if s.viewBoxDirty && !resized {
		s.camera.FitTo(s.viewBox, s.FitDuration, ease.OutCubic)
	} else {
		s.camera.Fit(s.viewBox)
	}
	s.viewBoxDirty = false
}

// buildCommands traverses the tree under the camera's view and fills
// s.commands. No GPU resources are touched.
func (s *Scene) buildCommands() {
	s.commands = s.commands[:0]
	s.activeClasses = s.activeClasses[:0]
	s.viewTransform = s.camera.computeViewMatrix()
	s.traverse(s.root, identityTransform, 1.0, false)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and per-frame
// timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
