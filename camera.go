package dispatchviz

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraAnim holds active tweens for camera X, Y and Zoom.
type cameraAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
}

// Camera controls the view into the scene: position, zoom, and viewport.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	anim *cameraAnim
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// fitParams returns the center and zoom that show r entirely, centered, in
// the viewport. A degenerate rect or viewport yields zoom 1.
func (c *Camera) fitParams(r Rect) (x, y, zoom float64) {
	x = r.X + r.Width/2
	y = r.Y + r.Height/2
	zoom = 1
	if r.Width > 0 && r.Height > 0 && c.Viewport.Width > 0 && c.Viewport.Height > 0 {
		zoom = math.Min(c.Viewport.Width/r.Width, c.Viewport.Height/r.Height)
	}
	return x, y, zoom
}

// Fit immediately centers r in the viewport at the largest zoom that shows
// all of it.
func (c *Camera) Fit(r Rect) {
	c.anim = nil
	c.X, c.Y, c.Zoom = c.fitParams(r)
	c.dirty = true
}

// FitTo animates the camera towards Fit(r) over duration seconds.
func (c *Camera) FitTo(r Rect, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.Fit(r)
		return
	}
	x, y, zoom := c.fitParams(r)
	c.anim = &cameraAnim{
		tweenX:    gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY:    gween.New(float32(c.Y), float32(y), duration, easeFn),
		tweenZoom: gween.New(float32(c.Zoom), float32(zoom), duration, easeFn),
	}
}

// Animating reports whether a FitTo animation is in progress.
func (c *Camera) Animating() bool {
	return c.anim != nil
}

// update advances any fit animation. Called from Scene.Update().
func (c *Camera) update(dt float32) {
	if c.anim == nil {
		return
	}
	a := c.anim
	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		c.X = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		c.Y = float64(val)
		a.doneY = done
	}
	if !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		c.Zoom = float64(val)
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		c.anim = nil
	}
	c.dirty = true
}

// setViewport changes the viewport, marking the view matrix dirty when it
// actually changed.
func (c *Camera) setViewport(vp Rect) {
	if vp != c.Viewport {
		c.Viewport = vp
		c.dirty = true
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	return worldAABB(c.invViewMatrix, c.Viewport)
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
