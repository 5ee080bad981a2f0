package dispatchviz

import "math/rand/v2"

// SketchOptions configures the hand-drawn look of sketched shapes.
type SketchOptions struct {
	// Seed makes jitter reproducible; the same seed redraws identical shapes.
	Seed uint64
	// Roughness is the maximum jitter, in world units, applied to outline
	// vertices. 0 draws clean geometry.
	Roughness float64
	// StrokeWidth is the outline and curve width. Defaults to 1.5.
	StrokeWidth float64
	// CurveSegments is the number of samples per curve segment. Defaults to 12.
	CurveSegments int
}

func (o SketchOptions) withDefaults() SketchOptions {
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = 1.5
	}
	if o.CurveSegments <= 0 {
		o.CurveSegments = 12
	}
	return o
}

// Sketcher builds sketchy rectangle, curve and polygon drawables. Every
// drawable is a plain scene node, so callers can tag it with classes and
// attach children to it.
type Sketcher struct {
	opts SketchOptions
	rng  *rand.Rand
}

// NewSketcher creates a sketcher whose jitter sequence starts from opts.Seed.
func NewSketcher(opts SketchOptions) *Sketcher {
	opts = opts.withDefaults()
	return &Sketcher{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

// Options returns the effective options.
func (sk *Sketcher) Options() SketchOptions {
	return sk.opts
}

// jitter returns a random offset in [-Roughness, Roughness].
func (sk *Sketcher) jitter() float64 {
	if sk.opts.Roughness == 0 {
		return 0
	}
	return (sk.rng.Float64()*2 - 1) * sk.opts.Roughness
}

func (sk *Sketcher) rough(pts []Vec2) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = Vec2{p.X + sk.jitter(), p.Y + sk.jitter()}
	}
	return out
}

// Rectangle draws a filled rectangle with a sketched outline. x and y are
// the top-left corner in the returned node's local space.
func (sk *Sketcher) Rectangle(x, y, w, h float64) *Node {
	corners := []Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	return sk.outlined("rect", corners)
}

// Polygon draws a filled convex polygon with a sketched outline.
func (sk *Sketcher) Polygon(points []Vec2) *Node {
	return sk.outlined("polygon", points)
}

// Curve draws a smooth stroke through points. tightness in [0, 1] controls
// how closely the curve hugs its control polygon; 1 draws straight segments.
func (sk *Sketcher) Curve(points []Vec2, tightness float64) *Node {
	ctrl := make([]Vec2, len(points))
	copy(ctrl, points)
	// Endpoints stay put so curves meet the shapes they connect.
	for i := 1; i < len(ctrl)-1; i++ {
		ctrl[i].X += sk.jitter()
		ctrl[i].Y += sk.jitter()
	}
	samples := CardinalSpline(ctrl, tightness, sk.opts.CurveSegments)
	n := NewStroke("curve", samples, sk.opts.StrokeWidth, StrokeJoinBevel)
	n.Part = PartStroke
	return n
}

// outlined builds a group holding a fill polygon and a jittered closed stroke.
func (sk *Sketcher) outlined(name string, pts []Vec2) *Node {
	g := NewGroup(name)
	fill := NewPolygon(name+"-fill", pts)
	fill.Part = PartFill
	g.AddChild(fill)

	ring := sk.rough(pts)
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	outline := NewStroke(name+"-stroke", ring, sk.opts.StrokeWidth, StrokeJoinMiter)
	outline.Part = PartStroke
	g.AddChild(outline)
	return g
}

// CardinalSpline samples a cardinal spline through points. Each of the
// len(points)-1 segments contributes segments samples, plus the final point.
// Fewer than three points are returned unchanged.
func CardinalSpline(points []Vec2, tightness float64, segments int) []Vec2 {
	n := len(points)
	if n < 3 || segments < 1 {
		out := make([]Vec2, n)
		copy(out, points)
		return out
	}
	s := (1 - tightness) / 2
	out := make([]Vec2, 0, (n-1)*segments+1)
	for i := 0; i < n-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]
		m1 := Vec2{s * (p2.X - p0.X), s * (p2.Y - p0.Y)}
		m2 := Vec2{s * (p3.X - p1.X), s * (p3.Y - p1.Y)}
		for k := 0; k < segments; k++ {
			t := float64(k) / float64(segments)
			t2 := t * t
			t3 := t2 * t
			h00 := 2*t3 - 3*t2 + 1
			h10 := t3 - 2*t2 + t
			h01 := -2*t3 + 3*t2
			h11 := t3 - t2
			out = append(out, Vec2{
				h00*p1.X + h10*m1.X + h01*p2.X + h11*m2.X,
				h00*p1.Y + h10*m1.Y + h01*p2.Y + h11*m2.Y,
			})
		}
	}
	return append(out, points[n-1])
}
