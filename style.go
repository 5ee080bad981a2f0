package dispatchviz

import "slices"

// StyleRule colors one part of every node under an element carrying Class.
// An empty Class matches everything.
type StyleRule struct {
	Class string
	Part  Part
	Color Color
}

// Stylesheet is an ordered list of rules. When several rules match a node,
// the last one wins.
type Stylesheet struct {
	rules []StyleRule
}

// NewStylesheet creates a stylesheet from rules in priority order.
func NewStylesheet(rules ...StyleRule) *Stylesheet {
	return &Stylesheet{rules: rules}
}

// Add appends a rule with the highest priority so far.
func (ss *Stylesheet) Add(class string, part Part, c Color) {
	ss.rules = append(ss.rules, StyleRule{Class: class, Part: part, Color: c})
}

// Rules returns the rule list. The returned slice MUST NOT be mutated.
func (ss *Stylesheet) Rules() []StyleRule {
	return ss.rules
}

// Resolve returns the color for part given the classes active on a node and
// its ancestors. ok is false when no rule matches.
func (ss *Stylesheet) Resolve(active []string, part Part) (c Color, ok bool) {
	if ss == nil || part == PartNone {
		return Color{}, false
	}
	for i := len(ss.rules) - 1; i >= 0; i-- {
		r := &ss.rules[i]
		if r.Part != part {
			continue
		}
		if r.Class == "" || slices.Contains(active, r.Class) {
			return r.Color, true
		}
	}
	return Color{}, false
}

// tint multiplies two colors component-wise.
func (c Color) tint(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}
