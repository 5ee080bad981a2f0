package dispatchviz

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; dispatchviz is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Part names which piece of a drawable a node paints. Stylesheet rules are
// keyed by class and part.
type Part uint8

const (
	PartNone   Part = iota // no styling; the node's own Color is used
	PartFill               // interior of a shape
	PartStroke             // outline or curve
	PartText               // label glyphs
)

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Only translation and scale are supported.
	X, Y   float64
	ScaleX float64
	ScaleY float64

	// Computed, updated during traversal
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha   float64
	Visible bool

	// Styling
	Color   Color
	Part    Part
	classes []string
	attrs   map[string]string

	// HitShape makes the node a pointer target. Nil nodes are skipped.
	HitShape HitShape

	// Metadata
	UserData any

	// Mesh fields (NodeTypeMesh)
	Vertices         []ebiten.Vertex
	Indices          []uint16
	transformedVerts []ebiten.Vertex // preallocated transform buffer
	meshAABB         Rect            // cached local-space AABB
	meshAABBDirty    bool            // recompute AABB when true

	// Text fields (NodeTypeText)
	TextBlock *TextBlock

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
}

// NewGroup creates a group node with no visual representation.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeGroup}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node that uses DrawTriangles for rendering. Untextured
// meshes are filled with the node's resolved color.
func NewMesh(name string, vertices []ebiten.Vertex, indices []uint16) *Node {
	n := &Node{
		Name:          name,
		Type:          NodeTypeMesh,
		Vertices:      vertices,
		Indices:       indices,
		meshAABBDirty: true,
	}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("dispatchviz: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("dispatchviz: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("dispatchviz: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk visits n and its descendants depth-first in tree (paint) order.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// --- Classes and attributes ---

// AddClass adds a class name. Adding an existing class is a no-op.
func (n *Node) AddClass(names ...string) {
	for _, name := range names {
		if name != "" && !slices.Contains(n.classes, name) {
			n.classes = append(n.classes, name)
		}
	}
}

// RemoveClass removes a class name if present.
func (n *Node) RemoveClass(name string) {
	if i := slices.Index(n.classes, name); i >= 0 {
		n.classes = slices.Delete(n.classes, i, i+1)
	}
}

// SetClass adds the class when on is true and removes it otherwise.
func (n *Node) SetClass(name string, on bool) {
	if on {
		n.AddClass(name)
	} else {
		n.RemoveClass(name)
	}
}

// HasClass reports whether the node carries the class.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

// Classes returns the class list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Classes() []string {
	return n.classes
}

// SetAttr attaches a string attribute to the node.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Attr returns the attribute value and whether it was set.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.transformedVerts = nil
	if n.TextBlock != nil {
		n.TextBlock.release()
		n.TextBlock = nil
	}
	n.UserData = nil
	n.attrs = nil
	n.classes = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
