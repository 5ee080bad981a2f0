package dispatchviz

import (
	"fmt"
	"strconv"

	"github.com/phanxgames/dispatchviz/dom"
)

// GraphNodeType distinguishes the two kinds of graph node.
type GraphNodeType uint8

const (
	GraphNodeElement    GraphNodeType = iota // element
	GraphNodeShadowRoot                      // shadow root
)

// String returns the type name.
func (t GraphNodeType) String() string {
	if t == GraphNodeShadowRoot {
		return "ShadowRoot"
	}
	return "Element"
}

// EdgeType is the relation an edge draws.
type EdgeType uint8

const (
	EdgeChild           EdgeType = iota // parent to child
	EdgeShadowRoot                      // host to its shadow root
	EdgeAssignedElement                 // slot to an element assigned to it
)

// String returns the type name.
func (t EdgeType) String() string {
	switch t {
	case EdgeShadowRoot:
		return "ShadowRoot"
	case EdgeAssignedElement:
		return "AssignedElement"
	default:
		return "Child"
	}
}

// class returns the scene class suffix used for edges of this type.
func (t EdgeType) class() string {
	switch t {
	case EdgeShadowRoot:
		return "shadow-root"
	case EdgeAssignedElement:
		return "assigned-element"
	default:
		return "child"
	}
}

// GraphNode is one box in the diagram. X and Y are the box center.
type GraphNode struct {
	ID       string
	Type     GraphNodeType
	TreeNode *dom.Node // nil for synthetic nodes

	X, Y, Width, Height float64
}

// Box returns the node's bounding rectangle.
func (n *GraphNode) Box() Rect {
	return RectFromCenter(n.X, n.Y, n.Width, n.Height)
}

// LeftCenter returns the midpoint of the node's left edge.
func (n *GraphNode) LeftCenter() Vec2 {
	return Vec2{n.X - n.Width/2, n.Y}
}

// GraphEdge is a directed relation between two graph nodes, drawn as a
// curve through Points.
type GraphEdge struct {
	From, To string
	Type     EdgeType
	Points   []Vec2
}

// Graph is the set of nodes and edges derived from one tree snapshot. It is
// not modified once FromTree returns.
type Graph struct {
	nodes map[string]*GraphNode
	order []string
	edges []*GraphEdge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*GraphNode)}
}

// AddNode adds n. Panics if its ID is empty or already present.
func (g *Graph) AddNode(n *GraphNode) {
	if n.ID == "" {
		panic("dispatchviz: graph node without ID")
	}
	if _, dup := g.nodes[n.ID]; dup {
		panic(fmt.Sprintf("dispatchviz: duplicate graph node %q", n.ID))
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// AddEdge adds e. Panics if either endpoint is unknown.
func (g *Graph) AddEdge(e *GraphEdge) {
	if _, ok := g.nodes[e.From]; !ok {
		panic(fmt.Sprintf("dispatchviz: edge from unknown node %q", e.From))
	}
	if _, ok := g.nodes[e.To]; !ok {
		panic(fmt.Sprintf("dispatchviz: edge to unknown node %q", e.To))
	}
	g.edges = append(g.edges, e)
}

// NodeIDs returns node identifiers in insertion order.
func (g *Graph) NodeIDs() []string {
	return g.order
}

// Node looks a node up by identifier.
func (g *Graph) Node(id string) (*GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*GraphNode {
	out := make([]*GraphNode, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.order)
}

// Edges returns all edges in insertion order. The returned slice MUST NOT be
// mutated.
func (g *Graph) Edges() []*GraphEdge {
	return g.edges
}

// Edge returns the first edge from one node to another.
func (g *Graph) Edge(from, to string) (*GraphEdge, bool) {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return nil, false
}

// NodeByTreeNode finds the graph node drawn for tn by scanning every node
// and comparing tree node identity.
func (g *Graph) NodeByTreeNode(tn *dom.Node) (*GraphNode, bool) {
	if tn == nil {
		return nil, false
	}
	for _, id := range g.order {
		if n := g.nodes[id]; n.TreeNode == tn {
			return n, true
		}
	}
	return nil, false
}

// FromTree derives the graph for a tree snapshot. Nodes get identifiers
// n0, n1, ... in document order. Edges: host to shadow root, parent to
// child, and slot to each assigned element. The layout then supplies all
// geometry; a nil layout uses TreeLayout defaults.
func FromTree(tree *dom.Tree, layout Layout) *Graph {
	g := NewGraph()
	ids := make(map[*dom.Node]string)
	nodes := tree.Nodes()
	for i, tn := range nodes {
		id := "n" + strconv.Itoa(i)
		ids[tn] = id
		typ := GraphNodeElement
		if tn.IsShadowRoot() {
			typ = GraphNodeShadowRoot
		}
		g.AddNode(&GraphNode{ID: id, Type: typ, TreeNode: tn})
	}
	for _, tn := range nodes {
		from := ids[tn]
		if sr := tn.ShadowRoot(); sr != nil {
			g.AddEdge(&GraphEdge{From: from, To: ids[sr], Type: EdgeShadowRoot})
		}
		for _, c := range tn.Children() {
			g.AddEdge(&GraphEdge{From: from, To: ids[c], Type: EdgeChild})
		}
		if tn.IsSlot() {
			for _, a := range tn.AssignedElements() {
				g.AddEdge(&GraphEdge{From: from, To: ids[a], Type: EdgeAssignedElement})
			}
		}
	}
	if layout == nil {
		layout = &TreeLayout{}
	}
	layout.Apply(g)
	return g
}
