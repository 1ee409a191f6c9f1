package netlist

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexpr"
)

// Read parses an s-expression netlist export: an (export ...) tree with
// (components ...) and (nets ...) sections. Pin bindings from the nets
// section are attached to their components by reference.
func Read(r io.Reader) (*Netlist, error) {
	nodes, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	if len(nodes) != 1 || nodes[0].Key() != "export" {
		return nil, fmt.Errorf("netlist: expected a single (export ...) expression")
	}
	return fromExport(nodes[0])
}

// ReadFile parses a netlist file from disk.
func ReadFile(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func fromExport(export *sexpr.Node) (*Netlist, error) {
	nl := &Netlist{}
	byRef := make(map[string]*Component)

	if comps, ok := export.Find("components"); ok {
		for _, cn := range comps.FindAll("comp") {
			c, err := parseComponent(cn)
			if err != nil {
				return nil, err
			}
			nl.Add(c)
			byRef[c.Reference] = c
		}
	}

	nets, ok := export.Find("nets")
	if !ok {
		return nl, nil
	}
	for _, netNode := range nets.FindAll("net") {
		name := ""
		if n, ok := netNode.Find("name"); ok {
			name = n.GetString(0)
		}
		for _, node := range netNode.FindAll("node") {
			refNode, ok := node.Find("ref")
			if !ok {
				return nil, fmt.Errorf("netlist: net %q: node without ref", name)
			}
			pinNode, ok := node.Find("pin")
			if !ok {
				return nil, fmt.Errorf("netlist: net %q: node without pin", name)
			}
			c := byRef[refNode.GetString(0)]
			if c == nil {
				return nil, fmt.Errorf("netlist: net %q references unknown component %q", name, refNode.GetString(0))
			}
			c.AddNet(pinNode.GetString(0), name)
		}
	}
	return nl, nil
}

func parseComponent(cn *sexpr.Node) (*Component, error) {
	refNode, ok := cn.Find("ref")
	if !ok {
		return nil, fmt.Errorf("netlist: comp without ref")
	}
	c := &Component{Reference: refNode.GetString(0)}

	if v, ok := cn.Find("value"); ok {
		c.Value = v.GetString(0)
	}
	if f, ok := cn.Find("footprint"); ok {
		c.FPID = pcb.LibID(f.GetString(0))
	}
	// Newer exports write (tstamps ...), older ones (tstamp ...).
	if ts, ok := cn.Find("tstamps"); ok {
		c.TimeStamp = ts.GetString(0)
	} else if ts, ok := cn.Find("tstamp"); ok {
		c.TimeStamp = ts.GetString(0)
	}
	return c, nil
}
