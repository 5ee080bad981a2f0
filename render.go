package dispatchviz

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandMesh CommandType = iota // DrawTriangles
	CommandText                    // text/v2 Draw
)

// RenderCommand is a single draw instruction emitted during scene traversal.
// Commands are submitted in emission order, which is tree order.
type RenderCommand struct {
	Type      CommandType
	Transform [6]float64
	Color     Color // resolved style color, alpha already includes worldAlpha

	// Mesh-only fields (slice headers, not copies of vertex data).
	meshVerts []ebiten.Vertex
	meshInds  []uint16

	// Text-only field.
	text *TextBlock
}

// traverse walks the node tree depth-first, updating transforms, resolving
// styles and emitting render commands for visible, drawable nodes.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	if !n.Visible {
		return
	}

	// Update world transform
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	mark := len(s.activeClasses)
	s.activeClasses = append(s.activeClasses, n.classes...)

	switch n.Type {
	case NodeTypeMesh:
		if len(n.Vertices) == 0 || len(n.Indices) == 0 {
			break
		}
		c := s.resolveColor(n)
		view := multiplyAffine(s.viewTransform, n.worldTransform)
		dst := ensureTransformedVerts(n)
		transformVertices(n.Vertices, dst, view, c)
		s.commands = append(s.commands, RenderCommand{
			Type:      CommandMesh,
			Transform: view,
			Color:     c,
			meshVerts: dst,
			meshInds:  n.Indices,
		})
	case NodeTypeText:
		tb := n.TextBlock
		if tb == nil || tb.Content == "" {
			break
		}
		if _, ok := tb.Font.(*TTFFont); !ok {
			break
		}
		s.commands = append(s.commands, RenderCommand{
			Type:      CommandText,
			Transform: multiplyAffine(s.viewTransform, n.worldTransform),
			Color:     s.resolveColor(n),
			text:      tb,
		})
	}

	for _, child := range n.children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute)
	}
	s.activeClasses = s.activeClasses[:mark]
}

// resolveColor picks the node's paint color: its stylesheet color for its
// part tinted by Node.Color, with world alpha applied.
func (s *Scene) resolveColor(n *Node) Color {
	c := n.Color
	if sc, ok := s.stylesheet.Resolve(s.activeClasses, n.Part); ok {
		c = sc.tint(n.Color)
	}
	c.A *= n.worldAlpha
	return c
}

// submit issues the draw calls for every queued command.
func (s *Scene) submit(target *ebiten.Image) {
	var triOp ebiten.DrawTrianglesOptions
	triOp.AntiAlias = true
	white := ensureWhitePixel()

	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandMesh:
			target.DrawTriangles(cmd.meshVerts, cmd.meshInds, white, &triOp)
		case CommandText:
			f := cmd.text.Font.(*TTFFont)
			op := &text.DrawOptions{}
			op.GeoM = geoM(cmd.Transform)
			op.ColorScale.Scale(float32(cmd.Color.R*cmd.Color.A), float32(cmd.Color.G*cmd.Color.A),
				float32(cmd.Color.B*cmd.Color.A), float32(cmd.Color.A))
			op.LineSpacing = cmd.text.lineHeight()
			op.PrimaryAlign = cmd.text.Align.primaryAlign()
			op.SecondaryAlign = text.AlignCenter
			text.Draw(target, cmd.text.Content, f.Face(), op)
		}
	}
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
