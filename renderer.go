package dispatchviz

import "github.com/phanxgames/dispatchviz/dom"

// Layer names, in paint order.
const (
	LayerRegions  = "regions"
	LayerNodes    = "nodes"
	LayerEdges    = "edges"
	LayerPointers = "pointers"
)

// SetTree replaces the diagram with one for tree. The scene is cleared
// unconditionally, a fresh graph is derived, and the scene is rebuilt in
// paint order: shadow regions, nodes, edges, pointers. The view box is then
// fitted to the drawn content plus padding, snapped outward to whole units.
func (d *Diagram) SetTree(tree *dom.Tree) {
	d.scene.Clear()
	clear(d.pointers)
	clear(d.pointerTargets)
	clear(d.tweens)

	g := FromTree(tree, d.opts.Layout)
	d.graph = g
	d.stats = DiagramStats{Nodes: g.NumNodes(), Edges: len(g.Edges())}

	b := &sceneBuilder{sk: NewSketcher(d.opts.Sketch), font: d.opts.Font}
	root := d.scene.Root()

	regions := newLayer(LayerRegions)
	root.AddChild(regions)
	d.stats.Regions = b.buildRegions(regions, g, d.opts.ShadowTreePadding)

	nodes := newLayer(LayerNodes)
	root.AddChild(nodes)
	for _, n := range g.Nodes() {
		b.buildNode(nodes, n)
	}

	edges := newLayer(LayerEdges)
	root.AddChild(edges)
	for _, e := range g.Edges() {
		b.buildEdge(edges, e)
	}

	pointers := newLayer(LayerPointers)
	root.AddChild(pointers)
	for _, role := range PointerRoles {
		d.pointers[role] = b.buildPointer(pointers, role)
	}

	d.viewBox = fitViewBox(d.opts.ViewPadding, regions, nodes, edges)
	d.scene.SetViewBox(d.viewBox)
}

// fitViewBox returns the union of the layers' content bounds grown by
// padding and snapped outward. With no content it is the padding square
// around the origin.
func fitViewBox(padding float64, layers ...*Node) Rect {
	var box Rect
	found := false
	for _, l := range layers {
		r, ok := l.ContentBounds()
		if !ok {
			continue
		}
		if found {
			box = box.Union(r)
		} else {
			box, found = r, true
		}
	}
	return box.Inset(padding).Outward()
}
