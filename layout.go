package dispatchviz

import "strings"

// Layout assigns geometry to every node and edge of a graph. FromTree calls
// it once, after the topology is complete.
type Layout interface {
	Apply(g *Graph)
}

// TreeLayout is a layered tidy-tree layout over Child and ShadowRoot edges.
// A host's shadow root is laid out as its first child. Zero fields take
// their defaults.
type TreeLayout struct {
	CharWidth  float64 // estimated label glyph advance; default 8
	LineHeight float64 // label line height; default 16
	PaddingX   float64 // horizontal label padding per side; default 12
	PaddingY   float64 // vertical label padding per side; default 8
	MinWidth   float64 // minimum node width; default 48
	HGap       float64 // gap between sibling subtrees; default 24
	VGap       float64 // gap between ranks; default 56
}

func (l TreeLayout) withDefaults() TreeLayout {
	if l.CharWidth <= 0 {
		l.CharWidth = 8
	}
	if l.LineHeight <= 0 {
		l.LineHeight = 16
	}
	if l.PaddingX <= 0 {
		l.PaddingX = 12
	}
	if l.PaddingY <= 0 {
		l.PaddingY = 8
	}
	if l.MinWidth <= 0 {
		l.MinWidth = 48
	}
	if l.HGap <= 0 {
		l.HGap = 24
	}
	if l.VGap <= 0 {
		l.VGap = 56
	}
	return l
}

// nodeLabelLines returns the text lines drawn inside a graph node.
func nodeLabelLines(n *GraphNode) []string {
	if n.Type == GraphNodeShadowRoot {
		mode := "open"
		if n.TreeNode != nil {
			mode = n.TreeNode.Mode.String()
		}
		return []string{shadowRootTitle, mode}
	}
	tag := ""
	if n.TreeNode != nil {
		tag = n.TreeNode.TagName
	}
	return []string{"<" + strings.ToLower(tag) + ">"}
}

// Apply sizes every node from its label, places ranks top to bottom and
// routes edges.
func (l *TreeLayout) Apply(g *Graph) {
	cfg := l.withDefaults()

	for _, n := range g.Nodes() {
		lines := nodeLabelLines(n)
		longest := 0
		for _, s := range lines {
			longest = max(longest, len(s))
		}
		n.Width = max(cfg.MinWidth, float64(longest)*cfg.CharWidth+2*cfg.PaddingX)
		n.Height = float64(len(lines))*cfg.LineHeight + 2*cfg.PaddingY
	}

	// Layout children: Child and ShadowRoot edges in edge order, which puts a
	// shadow root ahead of its host's light children.
	kids := make(map[string][]*GraphNode)
	hasParent := make(map[string]bool)
	for _, e := range g.Edges() {
		if e.Type == EdgeAssignedElement {
			continue
		}
		to, _ := g.Node(e.To)
		kids[e.From] = append(kids[e.From], to)
		hasParent[e.To] = true
	}

	var rankHeight float64
	for _, n := range g.Nodes() {
		rankHeight = max(rankHeight, n.Height)
	}

	widths := make(map[string]float64)
	var measure func(n *GraphNode) float64
	measure = func(n *GraphNode) float64 {
		var sum float64
		for i, c := range kids[n.ID] {
			if i > 0 {
				sum += cfg.HGap
			}
			sum += measure(c)
		}
		w := max(n.Width, sum)
		widths[n.ID] = w
		return w
	}

	var place func(n *GraphNode, left float64, depth int)
	place = func(n *GraphNode, left float64, depth int) {
		w := widths[n.ID]
		n.X = left + w/2
		n.Y = float64(depth)*(rankHeight+cfg.VGap) + rankHeight/2

		var sum float64
		for i, c := range kids[n.ID] {
			if i > 0 {
				sum += cfg.HGap
			}
			sum += widths[c.ID]
		}
		x := left + (w-sum)/2
		for _, c := range kids[n.ID] {
			place(c, x, depth+1)
			x += widths[c.ID] + cfg.HGap
		}
	}

	var left float64
	for _, n := range g.Nodes() {
		if hasParent[n.ID] {
			continue
		}
		w := measure(n)
		place(n, left, 0)
		left += w + cfg.HGap
	}

	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		e.Points = cfg.route(e.Type, from, to)
	}
}

// route returns the way points for an edge: source bottom, two bends, and
// target top. Tree edges bend halfway between the ranks; slot assignment
// edges bend just outside each endpoint.
func (l TreeLayout) route(t EdgeType, from, to *GraphNode) []Vec2 {
	start := Vec2{from.X, from.Y + from.Height/2}
	end := Vec2{to.X, to.Y - to.Height/2}
	if t == EdgeAssignedElement {
		d := l.VGap / 2
		return []Vec2{start, {start.X, start.Y + d}, {end.X, end.Y - d}, end}
	}
	midY := (start.Y + end.Y) / 2
	return []Vec2{start, {start.X, midY}, {end.X, midY}, end}
}
