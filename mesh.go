package dispatchviz

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// transformVertices applies an affine transform and color tint to src vertices,
// writing the result into dst. dst must be at least len(src) in length.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
//
// Color components are multiplied (vertex color * tint) and premultiplied by
// the tint's alpha, which already has worldAlpha baked in.
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, tint Color) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	cr := float32(tint.R)
	cg := float32(tint.G)
	cb := float32(tint.B)
	ca := float32(tint.A)

	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * cr * ca,
			ColorG: s.ColorG * cg * ca,
			ColorB: s.ColorB * cb * ca,
			ColorA: s.ColorA * ca,
		}
	}
}

// computeMeshAABB scans DstX/DstY of the given vertices and returns
// the axis-aligned bounding box in local space.
func computeMeshAABB(verts []ebiten.Vertex) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	minX := float64(verts[0].DstX)
	minY := float64(verts[0].DstY)
	maxX := minX
	maxY := minY
	for i := 1; i < len(verts); i++ {
		x := float64(verts[i].DstX)
		y := float64(verts[i].DstY)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ensureTransformedVerts grows the node's transformedVerts buffer to fit
// len(n.Vertices), using a high-water-mark strategy (never shrinks).
// Returns the resliced buffer.
func ensureTransformedVerts(n *Node) []ebiten.Vertex {
	need := len(n.Vertices)
	if cap(n.transformedVerts) < need {
		n.transformedVerts = make([]ebiten.Vertex, need)
	}
	n.transformedVerts = n.transformedVerts[:need]
	return n.transformedVerts
}

// InvalidateMeshAABB marks the mesh's cached AABB as needing recomputation.
// Call this after modifying Vertices.
func (n *Node) InvalidateMeshAABB() {
	n.meshAABBDirty = true
}

// recomputeMeshAABB recomputes the cached local-space AABB if dirty.
func (n *Node) recomputeMeshAABB() {
	if !n.meshAABBDirty {
		return
	}
	n.meshAABB = computeMeshAABB(n.Vertices)
	n.meshAABBDirty = false
}

// --- White pixel singleton (no sync.Once, dispatchviz is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 3x3 white image. Meshes sample
// its center texel, so only draw submission ever allocates it.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(3, 3)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// worldAABB computes the axis-aligned bounding box of the local rect r
// transformed by the given affine matrix.
func worldAABB(transform [6]float64, r Rect) Rect {
	x0, y0 := transformPoint(transform, r.X, r.Y)
	x1, y1 := transformPoint(transform, r.MaxX(), r.Y)
	x2, y2 := transformPoint(transform, r.MaxX(), r.MaxY())
	x3, y3 := transformPoint(transform, r.X, r.MaxY())

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// localBounds returns the node's own drawn area in local space and whether
// it has one. Groups and empty meshes have none.
func localBounds(n *Node) (Rect, bool) {
	switch n.Type {
	case NodeTypeMesh:
		if len(n.Vertices) == 0 {
			return Rect{}, false
		}
		n.recomputeMeshAABB()
		return n.meshAABB, true
	case NodeTypeText:
		if n.TextBlock == nil {
			return Rect{}, false
		}
		r := n.TextBlock.bounds()
		return r, r.Width > 0 && r.Height > 0
	}
	return Rect{}, false
}

// ContentBounds returns the bounding box of everything drawn in n's subtree,
// in n's parent's coordinate space. ok is false when nothing has area.
func (n *Node) ContentBounds() (Rect, bool) {
	return subtreeBounds(n, computeLocalTransform(n))
}

// subtreeBounds computes the bounding rectangle of a node and all its visible
// descendants in the coordinate space of transform. ok is false when nothing
// in the subtree has area.
func subtreeBounds(n *Node, transform [6]float64) (r Rect, ok bool) {
	subtreeBoundsWalk(n, transform, &r, &ok)
	return r, ok
}

func subtreeBoundsWalk(n *Node, transform [6]float64, bounds *Rect, found *bool) {
	if !n.Visible {
		return
	}
	if lb, has := localBounds(n); has {
		aabb := worldAABB(transform, lb)
		if !*found {
			*bounds = aabb
			*found = true
		} else {
			*bounds = bounds.Union(aabb)
		}
	}
	for _, child := range n.children {
		childTransform := multiplyAffine(transform, computeLocalTransform(child))
		subtreeBoundsWalk(child, childTransform, bounds, found)
	}
}
