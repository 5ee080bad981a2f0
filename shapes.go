package dispatchviz

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// whiteTexel is the source coordinate sampled by untextured meshes: the
// center of the shared white image.
const whiteTexel = 1.5

// --- Polygon ---

// NewPolygon creates an untextured polygon mesh from the given vertices.
// Uses fan triangulation (convex polygons). Color comes from the node's
// resolved style.
func NewPolygon(name string, points []Vec2) *Node {
	verts, inds := buildPolygonFan(points)
	return NewMesh(name, verts, inds)
}

// SetPolygonPoints updates the polygon's vertices. Maintains fan triangulation.
func SetPolygonPoints(n *Node, points []Vec2) {
	verts, inds := buildPolygonFan(points)

	// Reuse backing arrays when possible.
	if cap(n.Vertices) >= len(verts) {
		n.Vertices = n.Vertices[:len(verts)]
		copy(n.Vertices, verts)
	} else {
		n.Vertices = verts
	}
	if cap(n.Indices) >= len(inds) {
		n.Indices = n.Indices[:len(inds)]
		copy(n.Indices, inds)
	} else {
		n.Indices = inds
	}

	n.InvalidateMeshAABB()
}

// buildPolygonFan generates vertices and indices for a fan-triangulated polygon.
// N vertices, 3*(N-2) indices.
func buildPolygonFan(points []Vec2) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, (n-2)*3)

	for i, p := range points {
		verts[i] = solidVertex(p.X, p.Y)
	}

	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}

	return verts, inds
}

func solidVertex(x, y float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: whiteTexel, SrcY: whiteTexel,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

// --- Stroke ---

// StrokeJoinMode controls how segments join in a stroke mesh.
type StrokeJoinMode uint8

const (
	// StrokeJoinMiter extends segment corners to a sharp point.
	StrokeJoinMiter StrokeJoinMode = iota
	// StrokeJoinBevel flattens corners, avoiding spikes.
	StrokeJoinBevel
)

// NewStroke creates a ribbon mesh of the given width following a polyline.
func NewStroke(name string, points []Vec2, width float64, join StrokeJoinMode) *Node {
	n := NewMesh(name, nil, nil)
	SetStrokePoints(n, points, width, join)
	return n
}

// SetStrokePoints rebuilds a stroke mesh along points. For N points: 2N
// vertices, 6(N-1) indices. Fewer than two points clears the mesh.
func SetStrokePoints(n *Node, points []Vec2, width float64, join StrokeJoinMode) {
	if len(points) < 2 {
		n.Vertices = n.Vertices[:0]
		n.Indices = n.Indices[:0]
		n.InvalidateMeshAABB()
		return
	}

	count := len(points)
	numVerts := count * 2
	numInds := (count - 1) * 6

	// Grow vertex/index slices to high-water mark.
	if cap(n.Vertices) < numVerts {
		n.Vertices = make([]ebiten.Vertex, numVerts)
	}
	n.Vertices = n.Vertices[:numVerts]
	if cap(n.Indices) < numInds {
		n.Indices = make([]uint16, numInds)
	}
	n.Indices = n.Indices[:numInds]

	halfW := width / 2

	for i := 0; i < count; i++ {
		var nx, ny float64
		switch i {
		case 0:
			nx, ny = perpendicular(points[0], points[1])
		case count - 1:
			nx, ny = perpendicular(points[count-2], points[count-1])
		default:
			// Average of adjacent segment normals (miter).
			nx0, ny0 := perpendicular(points[i-1], points[i])
			nx1, ny1 := perpendicular(points[i], points[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			ln := math.Sqrt(nx*nx + ny*ny)
			if ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			if join == StrokeJoinMiter {
				// Clamp the miter extension to 2x to avoid spikes at sharp corners.
				dot := nx0*nx + ny0*ny
				if dot > 0.1 {
					scale := math.Min(1.0/dot, 2.0)
					nx *= scale
					ny *= scale
				}
			}
		}

		vi := i * 2
		n.Vertices[vi] = solidVertex(points[i].X+nx*halfW, points[i].Y+ny*halfW)
		n.Vertices[vi+1] = solidVertex(points[i].X-nx*halfW, points[i].Y-ny*halfW)
	}

	// Two triangles per segment.
	for i := 0; i < count-1; i++ {
		ii := i * 6
		v := uint16(i * 2)
		n.Indices[ii+0] = v
		n.Indices[ii+1] = v + 1
		n.Indices[ii+2] = v + 2
		n.Indices[ii+3] = v + 1
		n.Indices[ii+4] = v + 3
		n.Indices[ii+5] = v + 2
	}

	n.InvalidateMeshAABB()
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
