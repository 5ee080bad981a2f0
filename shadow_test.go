package dispatchviz

import (
	"testing"

	"github.com/phanxgames/dispatchviz/dom"
)

func TestShadowRegionEnclosesShadowTree(t *testing.T) {
	tree, _, _, sr, p := exampleTree()
	g := FromTree(tree, nil)

	regions := ShadowRegions(g, ShadowTreePadding)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}
	r := regions[0]
	if r.ShadowRoot.TreeNode != sr {
		t.Errorf("region root = %s, want the shadow root", r.ShadowRoot.TreeNode.Label())
	}
	if r.Depth != 1 {
		t.Errorf("Depth = %d, want 1", r.Depth)
	}
	pn, _ := g.NodeByTreeNode(p)
	if want := pn.Box().Inset(ShadowTreePadding); r.Box != want {
		t.Errorf("Box = %+v, want %+v", r.Box, want)
	}
	// The shadow root's own box is not part of its region.
	srn := r.ShadowRoot
	if r.Box.ContainsRect(srn.Box()) {
		t.Error("region contains its own shadow root node")
	}
}

func TestShadowRegionEmptyShadowRootSkipped(t *testing.T) {
	host := dom.NewElement("x-empty")
	host.AttachShadow(dom.ModeClosed)
	g := FromTree(dom.NewTree(host), nil)

	if regions := ShadowRegions(g, ShadowTreePadding); len(regions) != 0 {
		t.Errorf("regions = %d, want 0 for an empty shadow tree", len(regions))
	}
}

func TestShadowRegionsNested(t *testing.T) {
	outer := dom.NewElement("x-outer")
	sr1 := outer.AttachShadow(dom.ModeOpen)
	inner := sr1.AppendChild(dom.NewElement("x-inner"))
	sr2 := inner.AttachShadow(dom.ModeClosed)
	leaf := sr2.AppendChild(dom.NewElement("b"))
	g := FromTree(dom.NewTree(outer), nil)

	regions := ShadowRegions(g, 10)
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}
	if regions[0].ShadowRoot.TreeNode != sr1 || regions[1].ShadowRoot.TreeNode != sr2 {
		t.Fatal("regions not in graph order")
	}
	// The outer tree reaches the leaf through one more boundary.
	if regions[0].Depth != 2 {
		t.Errorf("outer Depth = %d, want 2", regions[0].Depth)
	}
	if regions[1].Depth != 1 {
		t.Errorf("inner Depth = %d, want 1", regions[1].Depth)
	}
	if !regions[0].Box.ContainsRect(regions[1].Box) {
		t.Errorf("outer %+v does not enclose inner %+v", regions[0].Box, regions[1].Box)
	}
	ln, _ := g.NodeByTreeNode(leaf)
	if want := ln.Box().Inset(10); regions[1].Box != want {
		t.Errorf("inner Box = %+v, want %+v", regions[1].Box, want)
	}
}

func TestShadowDepth(t *testing.T) {
	outer := dom.NewElement("x-outer")
	sr1 := outer.AttachShadow(dom.ModeOpen)
	inner := sr1.AppendChild(dom.NewElement("x-inner"))
	sr2 := inner.AttachShadow(dom.ModeOpen)
	leaf := sr2.AppendChild(dom.NewElement("i"))

	tests := []struct {
		name   string
		tn, sr *dom.Node
		depth  int
		ok     bool
	}{
		{"direct child", inner, sr1, 1, true},
		{"nested", leaf, sr1, 2, true},
		{"own tree", leaf, sr2, 1, true},
		{"light host", outer, sr1, 0, false},
		{"outer from inner", inner, sr2, 0, false},
	}
	for _, tt := range tests {
		d, ok := shadowDepth(tt.tn, tt.sr)
		if d != tt.depth || ok != tt.ok {
			t.Errorf("%s: shadowDepth = %d, %v; want %d, %v", tt.name, d, ok, tt.depth, tt.ok)
		}
	}
}
