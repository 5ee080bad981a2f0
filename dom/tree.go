package dom

// Tree is a snapshot rooted at a single element. It must not be mutated
// while a diagram built from it is displayed.
type Tree struct {
	Root *Node
}

// NewTree wraps root in a Tree.
func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}

// Walk visits every node in document order. A host is followed by its shadow
// root and that shadow tree, then by its light children. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	if n.shadowRoot != nil {
		if !walk(n.shadowRoot, fn) {
			return false
		}
	}
	for _, c := range n.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Nodes returns all nodes in document order.
func (t *Tree) Nodes() []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// FindByID returns the first element whose id attribute equals id.
func (t *Tree) FindByID(id string) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.Kind == KindElement && n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
