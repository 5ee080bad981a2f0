// Package dom models an immutable snapshot of a DOM-like tree, including
// nested shadow trees and slot assignment, and simulates event dispatch over
// it.
//
// Nodes are compared by identity everywhere in this module: two *Node values
// refer to the same tree node only when the pointers are equal.
package dom

import "strings"

// Kind distinguishes the two node variants.
type Kind uint8

const (
	KindElement    Kind = iota // element with a tag name
	KindShadowRoot             // shadow root attached to a host element
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindShadowRoot:
		return "ShadowRoot"
	default:
		return "Unknown"
	}
}

// ShadowRootMode is the access mode of a shadow root.
type ShadowRootMode uint8

const (
	ModeOpen ShadowRootMode = iota
	ModeClosed
)

// String returns "open" or "closed".
func (m ShadowRootMode) String() string {
	if m == ModeClosed {
		return "closed"
	}
	return "open"
}

// ParseMode converts "open"/"closed" (case-insensitive) to a mode.
func ParseMode(s string) (ShadowRootMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return ModeOpen, true
	case "closed":
		return ModeClosed, true
	}
	return ModeOpen, false
}

// Node is a single tree node. One flat struct serves both variants; fields
// that do not apply to a variant stay at their zero value.
type Node struct {
	Kind Kind

	// Element fields
	TagName string
	ID      string
	Slot    string // slot attribute: name of the slot this element wants
	Name    string // name attribute, used by <slot> elements

	// ShadowRoot fields
	Mode ShadowRootMode

	parent     *Node
	children   []*Node
	host       *Node // set on shadow roots
	shadowRoot *Node // set on hosts
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, TagName: tag}
}

// WithID sets the id attribute and returns n for chaining.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithSlot sets the slot attribute and returns n for chaining.
func (n *Node) WithSlot(slot string) *Node {
	n.Slot = slot
	return n
}

// WithName sets the name attribute and returns n for chaining.
func (n *Node) WithName(name string) *Node {
	n.Name = name
	return n
}

// AppendChild appends child to n and returns child.
// Panics if child is nil, already attached, a shadow root, or an ancestor of n.
func (n *Node) AppendChild(child *Node) *Node {
	if child == nil {
		panic("dom: cannot append nil child")
	}
	if child.Kind == KindShadowRoot {
		panic("dom: shadow roots are attached with AttachShadow")
	}
	if child.parent != nil {
		panic("dom: child already has a parent")
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			panic("dom: appending child would create a cycle")
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Append appends every child in order and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// AttachShadow attaches a new shadow root to the element n and returns it.
// Panics if n is not an element or already hosts a shadow root.
func (n *Node) AttachShadow(mode ShadowRootMode) *Node {
	if n.Kind != KindElement {
		panic("dom: only elements can host a shadow root")
	}
	if n.shadowRoot != nil {
		panic("dom: element already hosts a shadow root")
	}
	sr := &Node{Kind: KindShadowRoot, Mode: mode, host: n}
	n.shadowRoot = sr
	return sr
}

// Parent returns the tree parent, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node { return n.children }

// Host returns the host element of a shadow root, nil otherwise.
func (n *Node) Host() *Node { return n.host }

// ShadowRoot returns the shadow root hosted by n, if any.
func (n *Node) ShadowRoot() *Node { return n.shadowRoot }

// IsShadowRoot reports whether n is a shadow root.
func (n *Node) IsShadowRoot() bool { return n.Kind == KindShadowRoot }

// IsSlot reports whether n is a <slot> element.
func (n *Node) IsSlot() bool {
	return n.Kind == KindElement && strings.EqualFold(n.TagName, "slot")
}

// Root returns the root of n's tree without crossing shadow boundaries. For a
// node inside a shadow tree this is the shadow root; otherwise it is the
// topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsShadowIncludingInclusiveAncestorOf reports whether n is other or one of
// other's ancestors when shadow roots are followed to their hosts.
func (n *Node) IsShadowIncludingInclusiveAncestorOf(other *Node) bool {
	for c := other; c != nil; {
		if c == n {
			return true
		}
		if c.parent != nil {
			c = c.parent
		} else {
			c = c.host
		}
	}
	return false
}

// InClosedShadowTree reports whether n's root is a closed shadow root.
func (n *Node) InClosedShadowTree() bool {
	r := n.Root()
	return r.Kind == KindShadowRoot && r.Mode == ModeClosed
}

// slotName is the name a slot advertises; the default slot has "".
func (n *Node) slotName() string { return n.Name }

// AssignedSlot returns the slot element n is assigned to, or nil. Only
// element children of a shadow host are slottable.
func (n *Node) AssignedSlot() *Node {
	if n.Kind != KindElement || n.parent == nil || n.parent.shadowRoot == nil {
		return nil
	}
	return findSlot(n.parent.shadowRoot, n.Slot)
}

// AssignedElements returns the host children assigned to the slot n, in tree
// order. Returns nil when n is not a slot inside a shadow tree.
func (n *Node) AssignedElements() []*Node {
	if !n.IsSlot() {
		return nil
	}
	root := n.Root()
	if root.Kind != KindShadowRoot {
		return nil
	}
	// Only the first slot with a given name in tree order receives elements.
	if findSlot(root, n.slotName()) != n {
		return nil
	}
	var out []*Node
	for _, c := range root.host.children {
		if c.Kind == KindElement && c.Slot == n.slotName() {
			out = append(out, c)
		}
	}
	return out
}

// findSlot returns the first slot named name in the shadow tree rooted at
// root, in tree order. Nested shadow trees are not searched.
func findSlot(root *Node, name string) *Node {
	var found *Node
	var walk func(*Node) bool
	walk = func(c *Node) bool {
		if c.IsSlot() && c.slotName() == name {
			found = c
			return true
		}
		for _, cc := range c.children {
			if walk(cc) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// Label returns a short human readable description used in logs and tests.
func (n *Node) Label() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindShadowRoot {
		return "#shadow-root(" + n.Mode.String() + ")"
	}
	s := strings.ToLower(n.TagName)
	if n.ID != "" {
		s += "#" + n.ID
	}
	return s
}
