package dispatchviz

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultDragDeadZone = 4.0 // screen pixels
	wheelZoomStep       = 1.1
	minZoom, maxZoom    = 0.05, 20.0
)

// HitShape defines a hit-testable region in local coordinates. Only nodes with
// a HitShape receive pointer events.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// PointerContext describes a hover change. Node is nil for empty space.
type PointerContext struct {
	Node           *Node
	WorldX, WorldY float64
}

// ClickContext describes a press and release over the same node.
type ClickContext struct {
	Node             *Node
	WorldX, WorldY   float64
	ScreenX, ScreenY float64
}

// DragContext describes pointer motion with the button held. Deltas are in
// screen pixels since the previous drag event, so they stay meaningful while
// the camera pans underneath. Node is the node pressed on, or nil.
type DragContext struct {
	Node           *Node
	ScreenX        float64
	ScreenY        float64
	DeltaX, DeltaY float64
}

// pointerState tracks the mouse between frames.
type pointerState struct {
	down      bool
	startX    float64 // screen
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	dragging  bool
}

type handlerRegistry struct {
	enter  []func(PointerContext)
	leave  []func(PointerContext)
	click  []func(ClickContext)
	drag   []func(DragContext)
	nextID uint32
	ids    map[uint32]func(*handlerRegistry)
}

// CallbackHandle removes a registered callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters the callback. Safe to call more than once.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	if rm, ok := h.reg.ids[h.id]; ok {
		rm(h.reg)
		delete(h.reg.ids, h.id)
	}
}

// register stores the removal closure for a new handler and returns its handle.
func (r *handlerRegistry) register(rm func(*handlerRegistry)) CallbackHandle {
	r.nextID++
	if r.ids == nil {
		r.ids = make(map[uint32]func(*handlerRegistry))
	}
	r.ids[r.nextID] = rm
	return CallbackHandle{id: r.nextID, reg: r}
}

// removeAt clears slot i in place so indices captured by other handles stay
// valid.
func removeAt[T any](s []T, i int) {
	var zero T
	s[i] = zero
}

// OnPointerEnter registers fn for when the pointer moves onto a hit-testable
// node.
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	i := len(s.handlers.enter)
	s.handlers.enter = append(s.handlers.enter, fn)
	return s.handlers.register(func(r *handlerRegistry) { removeAt(r.enter, i) })
}

// OnPointerLeave registers fn for when the pointer leaves a hit-testable node.
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	i := len(s.handlers.leave)
	s.handlers.leave = append(s.handlers.leave, fn)
	return s.handlers.register(func(r *handlerRegistry) { removeAt(r.leave, i) })
}

// OnClick registers fn for clicks on hit-testable nodes.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	i := len(s.handlers.click)
	s.handlers.click = append(s.handlers.click, fn)
	return s.handlers.register(func(r *handlerRegistry) { removeAt(r.click, i) })
}

// OnDrag registers fn for drags anywhere in the scene.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	i := len(s.handlers.drag)
	s.handlers.drag = append(s.handlers.drag, fn)
	return s.handlers.register(func(r *handlerRegistry) { removeAt(r.drag, i) })
}

// SetDragDeadZone sets how far, in screen pixels, the pointer must travel
// before a press turns into a drag.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// collectHittable appends visible nodes carrying a HitShape in painter order.
func (s *Scene) collectHittable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.HitShape != nil {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = s.collectHittable(child, buf)
	}
	return buf
}

// hitTest finds the topmost hit-testable node at (worldX, worldY), or nil.
// World transforms must be current.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectHittable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if n.HitShape.Contains(lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput handles mouse and wheel input. Injected events take priority
// over the real mouse for the frame they are consumed in.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	mx, my := ebiten.CursorPosition()
	s.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, dy := ebiten.Wheel(); dy != 0 && !s.camera.Animating() {
		s.ZoomAt(float64(mx), float64(my), math.Pow(wheelZoomStep, dy))
	}
}

// ZoomAt scales the camera zoom by factor, keeping the world point under
// screen position (sx, sy) fixed.
func (s *Scene) ZoomAt(sx, sy, factor float64) {
	c := s.camera
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = math.Max(minZoom, math.Min(maxZoom, c.Zoom*factor))
	c.dirty = true
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.dirty = true
}

// Pan moves the camera so the scene follows a screen-space drag by (dx, dy).
func (s *Scene) Pan(dx, dy float64) {
	c := s.camera
	if c.Zoom == 0 {
		return
	}
	c.anim = nil
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
	c.dirty = true
}

// processPointer runs the press/drag/release state machine for the mouse at
// screen position (sx, sy).
func (s *Scene) processPointer(sx, sy float64, pressed bool) {
	ps := &s.pointer
	wx, wy := s.camera.ScreenToWorld(sx, sy)
	target := s.hitTest(wx, wy)

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.firePointer(s.handlers.leave, PointerContext{Node: ps.hoverNode, WorldX: wx, WorldY: wy})
		}
		if target != nil {
			s.firePointer(s.handlers.enter, PointerContext{Node: target, WorldX: wx, WorldY: wy})
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.hitNode = target
		ps.dragging = false
	case !pressed && ps.down:
		if !ps.dragging && ps.hitNode != nil && ps.hitNode == target {
			ctx := ClickContext{Node: target, WorldX: wx, WorldY: wy, ScreenX: sx, ScreenY: sy}
			for _, fn := range s.handlers.click {
				if fn != nil {
					fn(ctx)
				}
			}
		}
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		if !ps.dragging && math.Hypot(sx-ps.startX, sy-ps.startY) > s.dragDeadZone {
			ps.dragging = true
			// The first drag event covers the dead zone too.
			ps.lastX, ps.lastY = ps.startX, ps.startY
		}
		if ps.dragging {
			ctx := DragContext{Node: ps.hitNode, ScreenX: sx, ScreenY: sy, DeltaX: sx - ps.lastX, DeltaY: sy - ps.lastY}
			for _, fn := range s.handlers.drag {
				if fn != nil {
					fn(ctx)
				}
			}
			ps.lastX, ps.lastY = sx, sy
		}
	}
}

func (s *Scene) firePointer(fns []func(PointerContext), ctx PointerContext) {
	for _, fn := range fns {
		if fn != nil {
			fn(ctx)
		}
	}
}
