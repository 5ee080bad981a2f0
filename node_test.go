package dispatchviz

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constructor defaults ---

func TestNewGroupDefaults(t *testing.T) {
	n := NewGroup("test")
	assertNodeDefaults(t, n, "test", NodeTypeGroup)
}

func TestNewMeshDefaults(t *testing.T) {
	verts := []ebiten.Vertex{{DstX: 0, DstY: 0}}
	inds := []uint16{0}
	n := NewMesh("mesh", verts, inds)
	assertNodeDefaults(t, n, "mesh", NodeTypeMesh)
	if len(n.Vertices) != 1 || len(n.Indices) != 1 {
		t.Errorf("Vertices/Indices not set")
	}
}

func TestNewTextDefaults(t *testing.T) {
	n := NewText("text", "hello", nil)
	assertNodeDefaults(t, n, "text", NodeTypeText)
	if n.Part != PartText {
		t.Errorf("Part = %d, want PartText", n.Part)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if !n.transformDirty {
		t.Error("transformDirty should be true")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewMesh("c", nil, nil)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildReparent(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || p2.ChildAt(0) != child {
		t.Error("p2 should have child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	child.AddChild(parent)
}

func TestAddChildNilPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	NewGroup("p").AddChild(nil)
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for wrong parent, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveChildren(t *testing.T) {
	parent := NewGroup("parent")
	a := NewGroup("a")
	b := NewGroup("b")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Error("parent should have 0 children")
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("detached children should have nil Parent")
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	a.AddChild(NewGroup("a1"))
	root.AddChild(a)
	root.AddChild(NewGroup("b"))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "a"
	})
	want := []string{"root", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// --- Classes and attributes ---

func TestClassToggling(t *testing.T) {
	n := NewGroup("n")
	n.AddClass("node", "element", "node")
	if len(n.Classes()) != 2 {
		t.Errorf("Classes = %v, want 2 entries", n.Classes())
	}
	n.SetClass("highlight", true)
	if !n.HasClass("highlight") {
		t.Error("highlight should be set")
	}
	n.SetClass("highlight", false)
	if n.HasClass("highlight") {
		t.Error("highlight should be cleared")
	}
	n.SetClass("highlight", false) // clearing twice is a no-op
	if len(n.Classes()) != 2 {
		t.Errorf("Classes = %v, want [node element]", n.Classes())
	}
}

func TestAttributes(t *testing.T) {
	n := NewGroup("n")
	if _, ok := n.Attr("data-id"); ok {
		t.Error("unset attribute should report !ok")
	}
	n.SetAttr("data-id", "n3")
	if v, ok := n.Attr("data-id"); !ok || v != "n3" {
		t.Errorf("Attr = (%q, %v), want (n3, true)", v, ok)
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := NewGroup("root")
	parent := NewGroup("parent")
	child := NewGroup("child")
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Dispose()

	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if parent.ID != 0 || child.ID != 0 {
		t.Error("disposed nodes should have ID = 0")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have 0 children after dispose")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewGroup("n")
	n.Dispose()
	n.Dispose() // should not panic
	if !n.IsDisposed() {
		t.Error("should still be disposed")
	}
}

func TestDirtyPropagationOnAddChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	child.AddChild(grandchild)

	child.transformDirty = false
	grandchild.transformDirty = false

	parent.AddChild(child)

	if !child.transformDirty || !grandchild.transformDirty {
		t.Error("subtree should be dirty after AddChild")
	}
}
