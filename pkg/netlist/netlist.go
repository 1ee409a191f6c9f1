// Package netlist models the component/net description produced by
// schematic capture, the input to board netlist reconciliation.
package netlist

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

// Net is one pin-to-net binding of a component.
type Net struct {
	// Pin is the pad number the binding applies to.
	Pin string
	// Name is the net name the pin belongs to.
	Name string
}

// Component is one schematic component instance.
type Component struct {
	Reference string
	Value     string
	// TimeStamp is the schematic sheet path uniquely identifying the
	// instance across renames.
	TimeStamp string
	// FPID names the footprint the component should use.
	FPID pcb.LibID
	// Footprint is the resolved library footprint, nil until a library
	// lookup supplies it.
	Footprint *pcb.Footprint

	nets []Net
}

// AddNet records a pin-to-net binding.
func (c *Component) AddNet(pin, netName string) {
	c.nets = append(c.nets, Net{Pin: pin, Name: netName})
}

// Net returns the binding for a pin.
func (c *Component) Net(pin string) (Net, bool) {
	for _, n := range c.nets {
		if n.Pin == pin {
			return n, true
		}
	}
	return Net{}, false
}

// Nets returns every pin binding in declaration order.
func (c *Component) Nets() []Net { return c.nets }

// NetCount returns the number of pin bindings.
func (c *Component) NetCount() int { return len(c.nets) }

// Netlist is the full set of components plus the options steering
// reconciliation against a board.
type Netlist struct {
	components []*Component

	// DryRun reports what reconciliation would change without changing it.
	DryRun bool
	// FindByTimeStamp matches board footprints by sheet path instead of
	// reference designator.
	FindByTimeStamp bool
	// ReplaceFootprints exchanges footprints whose FPID changed.
	ReplaceFootprints bool
	// DeleteExtraFootprints removes unlocked board footprints absent
	// from the netlist.
	DeleteExtraFootprints bool
}

// Add appends a component.
func (nl *Netlist) Add(c *Component) {
	nl.components = append(nl.components, c)
}

// Count returns the number of components.
func (nl *Netlist) Count() int { return len(nl.components) }

// Component returns the i-th component.
func (nl *Netlist) Component(i int) *Component { return nl.components[i] }

// Components returns all components in file order.
func (nl *Netlist) Components() []*Component { return nl.components }

// ByReference returns the component with the given reference designator,
// or nil.
func (nl *Netlist) ByReference(ref string) *Component {
	for _, c := range nl.components {
		if c.Reference == ref {
			return c
		}
	}
	return nil
}

// ByTimeStamp returns the component whose sheet path matches,
// case-insensitively, or nil.
func (nl *Netlist) ByTimeStamp(path string) *Component {
	for _, c := range nl.components {
		if strings.EqualFold(c.TimeStamp, path) {
			return c
		}
	}
	return nil
}

// Lookup finds the board counterpart selector for fp: by sheet path when
// FindByTimeStamp is set, by reference otherwise.
func (nl *Netlist) Lookup(reference, path string) *Component {
	if nl.FindByTimeStamp {
		return nl.ByTimeStamp(path)
	}
	return nl.ByReference(reference)
}
