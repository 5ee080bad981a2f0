package dispatchviz

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement and layout.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// --- TextBlock ---

// TextBlock holds text content, formatting, and cached layout state. Text is
// vertically centered on its node's origin; Align controls the horizontal
// anchor.
type TextBlock struct {
	Content    string
	Font       Font
	Align      TextAlign
	LineHeight float64 // override; 0 = use Font.LineHeight()

	// Cached layout (unexported)
	layoutDirty bool
	measuredW   float64
	measuredH   float64
}

// NewText creates a text node. A nil font produces a node that measures and
// draws nothing until Font is set.
func NewText(name, content string, font Font) *Node {
	n := &Node{
		Name: name,
		Type: NodeTypeText,
		Part: PartText,
		TextBlock: &TextBlock{
			Content:     content,
			Font:        font,
			layoutDirty: true,
		},
	}
	nodeDefaults(n)
	return n
}

// SetContent replaces the text and invalidates the cached layout.
func (tb *TextBlock) SetContent(s string) {
	if s == tb.Content {
		return
	}
	tb.Content = s
	tb.layoutDirty = true
}

// SetFont replaces the font and invalidates the cached layout.
func (tb *TextBlock) SetFont(f Font) {
	tb.Font = f
	tb.layoutDirty = true
}

// lineHeight returns the effective line height for this text block.
func (tb *TextBlock) lineHeight() float64 {
	if tb.LineHeight > 0 {
		return tb.LineHeight
	}
	if tb.Font != nil {
		return tb.Font.LineHeight()
	}
	return 0
}

// layout recomputes measured dimensions if dirty.
func (tb *TextBlock) layout() {
	if !tb.layoutDirty {
		return
	}
	tb.layoutDirty = false
	if tb.Font == nil || tb.Content == "" {
		tb.measuredW, tb.measuredH = 0, 0
		return
	}
	tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
}

// Size returns the measured width and height of the text.
func (tb *TextBlock) Size() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

// bounds returns the local-space box the text covers around its origin.
func (tb *TextBlock) bounds() Rect {
	w, h := tb.Size()
	x := -w / 2
	switch tb.Align {
	case TextAlignLeft:
		x = 0
	case TextAlignRight:
		x = -w
	}
	return Rect{X: x, Y: -h / 2, Width: w, Height: h}
}

// release drops cached layout state when the owning node is disposed.
func (tb *TextBlock) release() {
	tb.Font = nil
	tb.measuredW, tb.measuredH = 0, 0
	tb.layoutDirty = true
}

// primaryAlign maps TextAlign onto text/v2's horizontal alignment.
func (a TextAlign) primaryAlign() text.Align {
	switch a {
	case TextAlignLeft:
		return text.AlignStart
	case TextAlignRight:
		return text.AlignEnd
	}
	return text.AlignCenter
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("dispatchviz: failed to parse TTF data: %w", err)
	}
	return newTTFFont(source, size), nil
}

func newTTFFont(source *text.GoTextFaceSource, size float64) *TTFFont {
	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	// Compute line height from metrics
	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &TTFFont{
		face:   face,
		source: source,
		size:   size,
		lh:     lh,
	}
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Size returns the font size in pixels.
func (f *TTFFont) Size() float64 {
	return f.size
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// --- Default font ---

var (
	goRegularSource *text.GoTextFaceSource
	defaultFonts    = map[float64]*TTFFont{}
)

// DefaultFont returns the bundled Go Regular face at the given size. Faces are
// cached per size.
func DefaultFont(size float64) *TTFFont {
	if f, ok := defaultFonts[size]; ok {
		return f
	}
	if goRegularSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("dispatchviz: bundled font: %v", err))
		}
		goRegularSource = src
	}
	f := newTTFFont(goRegularSource, size)
	defaultFonts[size] = f
	return f
}
