// Package dispatchviz draws a DOM-like tree, shadow trees included, as a
// node/edge diagram and animates event dispatch across it on [Ebitengine].
//
// # Quick start
//
//	tree := dom.NewTree(root)
//	steps := dom.Dispatch(target, dom.Event{Type: "click", Bubbles: true, Composed: true})
//
//	d := dispatchviz.New(nil, dispatchviz.Options{PointerTween: 0.25})
//	d.SetTree(tree)
//	d.SetStep(steps[0])
//
//	dispatchviz.Run(d.Scene(), dispatchviz.RunConfig{
//		Title: "dispatch", Width: 1024, Height: 768,
//		Update: func() error { d.Update(1.0 / 60); return nil },
//	})
//
// # Diagram
//
// [Diagram.SetTree] derives a [Graph] from the snapshot with [FromTree],
// lays it out and rebuilds the scene in four layers: shadow tree regions,
// node boxes, edge curves and the two pointers. The view box is refitted to
// the content every time.
//
// [Diagram.SetStep] leaves structure alone. It toggles the "highlighted"
// class on nodes of the composed path and moves the "event" and "target"
// pointers to the left edge of the current target and target boxes.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's translation, scale and
// alpha. Nodes carry classes and attributes; a [Stylesheet] colors each
// drawable part by the classes on it and its ancestors, so highlighting a
// node is a class toggle.
//
// Shapes come from a [Sketcher], which jitters outlines with a seeded
// generator so a rebuild draws exactly the same picture.
//
// # Playback and input
//
// A [Player] walks a step list with Next, Prev, First, Last and Seek.
// [Diagram.Interact] hooks pointer input: hovering outlines a node, clicking
// reports it and dragging pans. A [ScriptRunner] replays a JSON action list
// and takes labelled screenshots, which is how captures are scripted.
//
// [Ebitengine]: https://ebitengine.org
package dispatchviz
