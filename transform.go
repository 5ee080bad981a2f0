package dispatchviz

// Matrices are stored column-major as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Diagram nodes only translate and scale, so b and c stay zero for every
// node matrix. The helpers below still handle the general case because
// camera and bounds code compose arbitrary matrices.

var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform scales about the node origin, then moves it to (X, Y).
func computeLocalTransform(n *Node) [6]float64 {
	return [6]float64{n.ScaleX, 0, 0, n.ScaleY, n.X, n.Y}
}

// multiplyAffine returns p*c, so c is applied first.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine falls back to identity for a collapsed matrix, such as a node
// scaled to zero, so screen-to-world lookups never produce NaN.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	inv := 1.0 / det
	a, b := m[3]*inv, -m[1]*inv
	c, d := -m[2]*inv, m[0]*inv
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform refreshes world matrices and alpha below n. A node is
// recomputed when it was moved itself or when anything above it was, since
// its world position depends on the whole chain.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// SetPosition places the node's origin at (x, y) in its parent's space.
// Diagram shapes are centered on their origin.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale scales the node and its subtree about the node's origin.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetAlpha sets the node's opacity. Children multiply it into their own.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty is needed after writing X, Y, ScaleX, ScaleY or Alpha directly,
// as pointer tweens do.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

func (n *Node) Position() Vec2 {
	return Vec2{n.X, n.Y}
}

// WorldToLocal maps a diagram-space point into the node's frame, where a
// node box spans [-Width/2, Width/2] by [-Height/2, Height/2].
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.worldTransform), wx, wy)
}

// LocalToWorld maps a point in the node's frame into diagram space using the
// world matrix from the last update.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}
