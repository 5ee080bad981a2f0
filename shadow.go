package dispatchviz

import (
	"math"

	"github.com/phanxgames/dispatchviz/dom"
)

// ShadowTreePadding is the region padding added per level of shadow nesting.
const ShadowTreePadding = 10.0

// ShadowRegion is the background box grouping the nodes of one shadow tree.
type ShadowRegion struct {
	ShadowRoot *GraphNode // graph node of the shadow root
	Box        Rect
	Depth      int // deepest nesting level among contained nodes
}

// shadowDepth reports whether tn lives inside the shadow tree of sr, directly
// or through nested shadow trees, and how many shadow boundaries separate
// them. Depth 1 means tn's own root is sr.
func shadowDepth(tn, sr *dom.Node) (int, bool) {
	root := tn.Root()
	for depth := 1; ; depth++ {
		if root == sr {
			return depth, true
		}
		if !root.IsShadowRoot() || root.Host() == nil {
			return 0, false
		}
		root = root.Host().Root()
	}
}

// ShadowRegions computes one region per shadow root that contains at least
// one other graph node. Each region is the union of its contained node boxes
// grown on every side by the deepest containment depth times padding.
// Regions come out in graph order, so an enclosing region precedes the
// regions nested inside it.
func ShadowRegions(g *Graph, padding float64) []ShadowRegion {
	var out []ShadowRegion
	nodes := g.Nodes()
	for _, srNode := range nodes {
		if srNode.Type != GraphNodeShadowRoot || srNode.TreeNode == nil {
			continue
		}
		sr := srNode.TreeNode
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		maxDepth := 0
		for _, n := range nodes {
			if n == srNode || n.TreeNode == nil {
				continue
			}
			depth, ok := shadowDepth(n.TreeNode, sr)
			if !ok {
				continue
			}
			maxDepth = max(maxDepth, depth)
			b := n.Box()
			minX = math.Min(minX, b.X)
			minY = math.Min(minY, b.Y)
			maxX = math.Max(maxX, b.MaxX())
			maxY = math.Max(maxY, b.MaxY())
		}
		if maxDepth == 0 {
			continue
		}
		box := Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
		out = append(out, ShadowRegion{
			ShadowRoot: srNode,
			Box:        box.Inset(float64(maxDepth) * padding),
			Depth:      maxDepth,
		})
	}
	return out
}
