package dispatchviz

import (
	"strconv"
	"strings"
)

// Scene classes and attributes written by the diagram builder.
const (
	ClassLayer       = "layer"
	ClassShadowTree  = "shadow-tree"
	ClassNode        = "node"
	ClassElement     = "element"
	ClassShadowRoot  = "shadow-root"
	ClassLabel       = "label"
	ClassIDBadge     = "id-badge"
	ClassEdge        = "edge"
	ClassPointer     = "pointer"
	ClassHighlighted = "highlighted"
	ClassHovered     = "hovered"

	AttrID   = "data-id"
	AttrFrom = "from"
	AttrTo   = "to"
)

const (
	shadowRootTitle = "#shadow-root"

	// IDBadgeSize is the side of the square id badge on element nodes.
	IDBadgeSize = 20.0

	// CurveTightness is shared by every edge curve.
	CurveTightness = 0.25
)

// PointerRole names a marker tracking one role during dispatch.
type PointerRole string

const (
	PointerEvent  PointerRole = "event"  // follows the current target
	PointerTarget PointerRole = "target" // follows the event target
)

// PointerRoles lists the markers every diagram draws, in paint order.
var PointerRoles = []PointerRole{PointerEvent, PointerTarget}

// pointerArrow is the marker outline: tip at the origin pointing right.
// Fan triangulation from the tip covers it exactly.
var pointerArrow = []Vec2{
	{0, 0}, {-10, -7}, {-10, -3}, {-28, -3}, {-28, 3}, {-10, 3}, {-10, 7},
}

// sceneBuilder turns a graph into scene nodes. It holds no state beyond its
// drawing tools, so rebuilding from the same graph yields the same scene.
type sceneBuilder struct {
	sk   *Sketcher
	font Font
}

func newLayer(name string) *Node {
	l := NewGroup(name)
	l.AddClass(ClassLayer, "layer-"+name)
	return l
}

// buildRegions draws one background rectangle per non-empty shadow region.
func (b *sceneBuilder) buildRegions(layer *Node, g *Graph, padding float64) int {
	regions := ShadowRegions(g, padding)
	for _, r := range regions {
		rect := b.sk.Rectangle(r.Box.X, r.Box.Y, r.Box.Width, r.Box.Height)
		rect.Name = "region:" + r.ShadowRoot.ID
		rect.AddClass(ClassShadowTree)
		if r.ShadowRoot.TreeNode != nil {
			rect.AddClass("mode-" + r.ShadowRoot.TreeNode.Mode.String())
		}
		rect.SetAttr(AttrID, r.ShadowRoot.ID)
		rect.SetAttr("data-depth", strconv.Itoa(r.Depth))
		layer.AddChild(rect)
	}
	return len(regions)
}

// buildNode draws a graph node as a group centered on the node, holding the
// box, its label lines and, for elements with an id, the id badge.
func (b *sceneBuilder) buildNode(layer *Node, n *GraphNode) *Node {
	grp := NewGroup("node:" + n.ID)
	grp.SetPosition(n.X, n.Y)
	grp.AddClass(ClassNode)
	grp.SetAttr(AttrID, n.ID)
	grp.UserData = n
	grp.HitShape = HitRect{X: -n.Width / 2, Y: -n.Height / 2, Width: n.Width, Height: n.Height}

	grp.AddChild(b.sk.Rectangle(-n.Width/2, -n.Height/2, n.Width, n.Height))

	lines := nodeLabelLines(n)
	switch n.Type {
	case GraphNodeShadowRoot:
		grp.AddClass(ClassShadowRoot)
		lh := b.font.LineHeight()
		title := b.label(lines[0])
		title.SetPosition(0, -lh/2)
		grp.AddChild(title)
		mode := b.label(lines[1])
		mode.SetPosition(0, title.Y+lh)
		mode.AddClass("mode", "mode-"+lines[1])
		grp.AddChild(mode)
	default:
		grp.AddClass(ClassElement)
		grp.AddChild(b.label(lines[0]))
		if n.TreeNode != nil && n.TreeNode.ID != "" {
			grp.AddChild(b.idBadge(n.TreeNode.ID, n.Width, n.Height))
		}
	}

	layer.AddChild(grp)
	return grp
}

func (b *sceneBuilder) label(s string) *Node {
	t := NewText("label", s, b.font)
	t.AddClass(ClassLabel)
	return t
}

// idBadge builds the square id badge centered on the top-right corner of a
// w by h node.
func (b *sceneBuilder) idBadge(id string, w, h float64) *Node {
	badge := NewGroup("id-badge")
	badge.AddClass(ClassIDBadge)
	badge.SetPosition(w/2, -h/2)
	badge.AddChild(b.sk.Rectangle(-IDBadgeSize/2, -IDBadgeSize/2, IDBadgeSize, IDBadgeSize))
	badge.AddChild(b.label(id))
	return badge
}

// buildEdge draws an edge as a curve tagged with its type and endpoints.
func (b *sceneBuilder) buildEdge(layer *Node, e *GraphEdge) *Node {
	c := b.sk.Curve(e.Points, CurveTightness)
	c.Name = "edge:" + e.From + "-" + e.To
	c.AddClass(ClassEdge, "edge-"+e.Type.class())
	c.SetAttr(AttrFrom, e.From)
	c.SetAttr(AttrTo, e.To)
	layer.AddChild(c)
	return c
}

// buildPointer draws a role marker at the origin. SetStep moves it.
func (b *sceneBuilder) buildPointer(layer *Node, role PointerRole) *Node {
	grp := NewGroup("pointer:" + string(role))
	grp.AddClass(ClassPointer, pointerClass(role))
	grp.AddChild(b.sk.Polygon(pointerArrow))
	l := b.label(strings.ToLower(string(role)))
	l.TextBlock.Align = TextAlignRight
	l.SetPosition(-32, 0)
	grp.AddChild(l)
	layer.AddChild(grp)
	return grp
}

func pointerClass(role PointerRole) string {
	return "pointer-" + string(role)
}
