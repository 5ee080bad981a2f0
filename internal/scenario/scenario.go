// Package scenario loads HCL files describing a tree snapshot and the event
// to dispatch through it.
//
// A scenario has one root element block, nested element and shadow_root
// blocks, and one event block naming its target by element id:
//
//	title = "click inside an open shadow tree"
//
//	element "div" {
//	  element "span" {
//	    id = "a"
//	    shadow_root {
//	      mode = open
//	      element "p" { id = "inner" }
//	    }
//	  }
//	}
//
//	event "click" {
//	  target   = "inner"
//	  bubbles  = true
//	  composed = true
//	}
//
// The identifiers open and closed are predefined for shadow_root modes.
package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/phanxgames/dispatchviz/dom"
	"github.com/phanxgames/dispatchviz/internal/ctxlog"
)

// Scenario is a decoded scenario file.
type Scenario struct {
	Title  string
	Width  int // preferred window size; 0 when unset
	Height int
	Tree   *dom.Tree
	Event  dom.Event
	Target *dom.Node
	Path   string // source file, empty for in-memory sources
}

// Steps simulates dispatching the scenario's event.
func (s *Scenario) Steps() []dom.Step {
	return dom.Dispatch(s.Target, s.Event)
}

// hclFile is the top-level structure of a scenario file for decoding.
type hclFile struct {
	Title    *string       `hcl:"title,optional"`
	Width    *int          `hcl:"width,optional"`
	Height   *int          `hcl:"height,optional"`
	Elements []*hclElement `hcl:"element,block"`
	Events   []*hclEvent   `hcl:"event,block"`
}

type hclElement struct {
	Tag      string         `hcl:"tag,label"`
	ID       *string        `hcl:"id,optional"`
	Slot     *string        `hcl:"slot,optional"`
	Name     *string        `hcl:"name,optional"`
	Shadow   *hclShadowRoot `hcl:"shadow_root,block"`
	Elements []*hclElement  `hcl:"element,block"`
}

type hclShadowRoot struct {
	Mode     *string       `hcl:"mode,optional"`
	Elements []*hclElement `hcl:"element,block"`
}

type hclEvent struct {
	Type     string `hcl:"type,label"`
	Target   string `hcl:"target"`
	Bubbles  *bool  `hcl:"bubbles,optional"`
	Composed *bool  `hcl:"composed,optional"`
}

// evalContext exposes the shadow root mode keywords.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"open":   cty.StringVal(dom.ModeOpen.String()),
			"closed": cty.StringVal(dom.ModeClosed.String()),
		},
	}
}

// Load parses and decodes the scenario file at path.
func Load(ctx context.Context, path string) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scenario.", "path", path)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := Parse(ctx, src, path)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

// Parse decodes scenario source. filename is used in diagnostics only.
func Parse(ctx context.Context, src []byte, filename string) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", filename, diags)
	}

	var raw hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}

	if len(raw.Elements) != 1 {
		return nil, fmt.Errorf("scenario %s: want exactly one root element, found %d", filename, len(raw.Elements))
	}
	if len(raw.Events) != 1 {
		return nil, fmt.Errorf("scenario %s: want exactly one event block, found %d", filename, len(raw.Events))
	}

	root, err := buildElement(raw.Elements[0])
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filename, err)
	}
	tree := dom.NewTree(root)

	ev := raw.Events[0]
	target := tree.FindByID(ev.Target)
	if target == nil {
		return nil, fmt.Errorf("scenario %s: event target %q matches no element id", filename, ev.Target)
	}

	s := &Scenario{
		Tree:   tree,
		Target: target,
		Event: dom.Event{
			Type:     ev.Type,
			Bubbles:  deref(ev.Bubbles, false),
			Composed: deref(ev.Composed, false),
		},
		Title:  deref(raw.Title, filename),
		Width:  deref(raw.Width, 0),
		Height: deref(raw.Height, 0),
	}
	logger.Debug("Decoded scenario.", "file", filename, "nodes", len(tree.Nodes()), "event", ev.Type, "target", target.Label())
	return s, nil
}

// buildElement converts a decoded element block and its descendants.
func buildElement(e *hclElement) (*dom.Node, error) {
	if e.Tag == "" {
		return nil, fmt.Errorf("element with empty tag name")
	}
	n := dom.NewElement(e.Tag).
		WithID(deref(e.ID, "")).
		WithSlot(deref(e.Slot, "")).
		WithName(deref(e.Name, ""))

	if e.Shadow != nil {
		mode, ok := dom.ParseMode(deref(e.Shadow.Mode, "open"))
		if !ok {
			return nil, fmt.Errorf("shadow_root of <%s>: mode must be open or closed, got %q", e.Tag, *e.Shadow.Mode)
		}
		sr := n.AttachShadow(mode)
		for _, c := range e.Shadow.Elements {
			child, err := buildElement(c)
			if err != nil {
				return nil, err
			}
			sr.AppendChild(child)
		}
	}

	for _, c := range e.Elements {
		child, err := buildElement(c)
		if err != nil {
			return nil, err
		}
		n.AppendChild(child)
	}
	return n, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
