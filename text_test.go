package dispatchviz

import "testing"

// fixedFont measures every rune as w wide and one line high.
type fixedFont struct {
	w, lh float64
	calls *int
}

func (f fixedFont) MeasureString(s string) (float64, float64) {
	if f.calls != nil {
		*f.calls++
	}
	return float64(len([]rune(s))) * f.w, f.lh
}

func (f fixedFont) LineHeight() float64 { return f.lh }

func TestNewText(t *testing.T) {
	n := NewText("lbl", "hi", fixedFont{w: 5, lh: 10})
	if n.Type != NodeTypeText {
		t.Errorf("Type = %d, want NodeTypeText", n.Type)
	}
	if n.Part != PartText {
		t.Errorf("Part = %d, want PartText", n.Part)
	}
	if n.TextBlock == nil || n.TextBlock.Content != "hi" {
		t.Fatalf("TextBlock = %+v, want content %q", n.TextBlock, "hi")
	}
	if !n.Visible || n.Alpha != 1 || n.ScaleX != 1 {
		t.Error("NewText did not apply node defaults")
	}
}

func TestTextSize(t *testing.T) {
	n := NewText("lbl", "abcd", fixedFont{w: 5, lh: 10})
	w, h := n.TextBlock.Size()
	if w != 20 || h != 10 {
		t.Errorf("Size = (%v, %v), want (20, 10)", w, h)
	}
}

func TestTextLayoutCached(t *testing.T) {
	calls := 0
	n := NewText("lbl", "abc", fixedFont{w: 5, lh: 10, calls: &calls})
	tb := n.TextBlock

	tb.Size()
	tb.Size()
	if calls != 1 {
		t.Errorf("MeasureString calls = %d, want 1", calls)
	}

	tb.SetContent("abc")
	tb.Size()
	if calls != 1 {
		t.Errorf("same content remeasured: calls = %d, want 1", calls)
	}

	tb.SetContent("abcdef")
	w, _ := tb.Size()
	if calls != 2 {
		t.Errorf("MeasureString calls = %d, want 2", calls)
	}
	if w != 30 {
		t.Errorf("width = %v, want 30", w)
	}
}

func TestTextSetFontRemeasures(t *testing.T) {
	n := NewText("lbl", "ab", fixedFont{w: 5, lh: 10})
	tb := n.TextBlock
	tb.Size()

	tb.SetFont(fixedFont{w: 7, lh: 12})
	w, h := tb.Size()
	if w != 14 || h != 12 {
		t.Errorf("Size = (%v, %v), want (14, 12)", w, h)
	}
}

func TestTextNilFontMeasuresZero(t *testing.T) {
	n := NewText("lbl", "abc", nil)
	w, h := n.TextBlock.Size()
	if w != 0 || h != 0 {
		t.Errorf("Size = (%v, %v), want (0, 0)", w, h)
	}
	if lh := n.TextBlock.lineHeight(); lh != 0 {
		t.Errorf("lineHeight = %v, want 0", lh)
	}
}

func TestTextBoundsByAlign(t *testing.T) {
	tests := []struct {
		align TextAlign
		want  Rect
	}{
		{TextAlignCenter, Rect{X: -10, Y: -5, Width: 20, Height: 10}},
		{TextAlignLeft, Rect{X: 0, Y: -5, Width: 20, Height: 10}},
		{TextAlignRight, Rect{X: -20, Y: -5, Width: 20, Height: 10}},
	}
	for _, tt := range tests {
		n := NewText("lbl", "abcd", fixedFont{w: 5, lh: 10})
		n.TextBlock.Align = tt.align
		if got := n.TextBlock.bounds(); got != tt.want {
			t.Errorf("align %d: bounds = %+v, want %+v", tt.align, got, tt.want)
		}
	}
}

func TestTextLineHeightOverride(t *testing.T) {
	n := NewText("lbl", "a", fixedFont{w: 5, lh: 10})
	if lh := n.TextBlock.lineHeight(); lh != 10 {
		t.Errorf("lineHeight = %v, want font's 10", lh)
	}
	n.TextBlock.LineHeight = 24
	if lh := n.TextBlock.lineHeight(); lh != 24 {
		t.Errorf("lineHeight = %v, want override 24", lh)
	}
}

func TestTextContentBounds(t *testing.T) {
	n := NewText("lbl", "abcd", fixedFont{w: 5, lh: 10})
	r, ok := n.ContentBounds()
	if !ok {
		t.Fatal("ContentBounds reported no content")
	}
	if r.Width != 20 || r.Height != 10 {
		t.Errorf("ContentBounds = %+v, want 20x10", r)
	}
}

func TestDefaultFontCachedPerSize(t *testing.T) {
	a := DefaultFont(13)
	b := DefaultFont(13)
	c := DefaultFont(17)
	if a != b {
		t.Error("DefaultFont(13) returned different faces")
	}
	if a == c {
		t.Error("DefaultFont(17) reused the 13px face")
	}
	if a.Size() != 13 || c.Size() != 17 {
		t.Errorf("sizes = %v, %v; want 13, 17", a.Size(), c.Size())
	}
}

func TestDefaultFontMeasures(t *testing.T) {
	f := DefaultFont(16)
	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v, want > 0", f.LineHeight())
	}
	short, _ := f.MeasureString("a")
	long, _ := f.MeasureString("aaaa")
	if short <= 0 || long <= short {
		t.Errorf("widths = %v, %v; want 0 < short < long", short, long)
	}
	if f.Face() == nil {
		t.Error("Face() = nil")
	}
}

func TestLoadTTFFontRejectsGarbage(t *testing.T) {
	if _, err := LoadTTFFont([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestTextReleaseDropsFont(t *testing.T) {
	n := NewText("lbl", "abc", fixedFont{w: 5, lh: 10})
	n.TextBlock.Size()
	n.TextBlock.release()
	if n.TextBlock.Font != nil {
		t.Error("Font not cleared")
	}
	if w, _ := n.TextBlock.Size(); w != 0 {
		t.Errorf("width after release = %v, want 0", w)
	}
}
