package dispatchviz

// Interaction lets the user hover, click and pan a diagram.
type Interaction struct {
	handles []CallbackHandle
}

// Interact wires pointer input on the diagram's scene. Hovered node boxes
// get the hovered class, clicks on a node box call onNode with its graph
// node, and dragging pans the camera. onNode may be nil.
func (d *Diagram) Interact(onNode func(*GraphNode)) *Interaction {
	s := d.scene
	hover := func(on bool) func(PointerContext) {
		return func(ctx PointerContext) {
			if ctx.Node.HasClass(ClassNode) {
				ctx.Node.SetClass(ClassHovered, on)
			}
		}
	}
	return &Interaction{handles: []CallbackHandle{
		s.OnPointerEnter(hover(true)),
		s.OnPointerLeave(hover(false)),
		s.OnClick(func(ctx ClickContext) {
			gn, ok := ctx.Node.UserData.(*GraphNode)
			if ok && onNode != nil {
				onNode(gn)
			}
		}),
		s.OnDrag(func(ctx DragContext) {
			s.Pan(ctx.DeltaX, ctx.DeltaY)
		}),
	}}
}

// Close unregisters every callback.
func (i *Interaction) Close() {
	for _, h := range i.handles {
		h.Remove()
	}
	i.handles = nil
}
