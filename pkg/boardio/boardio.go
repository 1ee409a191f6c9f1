// Package boardio loads .kicad_pcb board files into the pcb document model.
package boardio

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexpr"
)

// Load parses a board file from r, wiring items into a board built with
// cfg and conn (see pcb.New).
func Load(r io.Reader, cfg pcb.Config, conn pcb.ConnectivityProvider) (*pcb.Board, error) {
	nodes, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("boardio: %w", err)
	}
	if len(nodes) != 1 || nodes[0].Key() != "kicad_pcb" {
		return nil, fmt.Errorf("boardio: expected a single (kicad_pcb ...) expression")
	}
	return fromTree(nodes[0], cfg, conn)
}

// LoadFile parses a board file from disk.
func LoadFile(path string, cfg pcb.Config, conn pcb.ConnectivityProvider) (*pcb.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("boardio: %w", err)
	}
	defer f.Close()
	return Load(f, cfg, conn)
}

func fromTree(root *sexpr.Node, cfg pcb.Config, conn pcb.ConnectivityProvider) (*pcb.Board, error) {
	b := pcb.New(cfg, conn)

	// File net numbers need not be contiguous; codes maps each one to the
	// code the registry assigned, so item net references stay attached to
	// the right net.
	codes := map[int]int{pcb.UnconnectedNetCode: pcb.UnconnectedNetCode}
	for _, n := range root.FindAll("net") {
		code, err := n.GetInt(0)
		if err != nil {
			return nil, err
		}
		if code == pcb.UnconnectedNetCode {
			continue // every board already owns net 0
		}
		if _, dup := codes[code]; dup {
			return nil, fmt.Errorf("boardio: duplicate net code %d", code)
		}
		ni := pcb.NewNetInfo(n.GetString(1))
		b.Add(ni, pcb.AddAppend)
		codes[code] = ni.Code()
	}

	for _, n := range root.FindAll("segment") {
		t, err := parseSegment(b, n, codes)
		if err != nil {
			return nil, err
		}
		b.Add(t, pcb.AddAppend)
	}

	for _, n := range root.FindAll("via") {
		v, err := parseVia(b, n, codes)
		if err != nil {
			return nil, err
		}
		b.Add(v, pcb.AddAppend)
	}

	// Both the modern and the legacy footprint keyword appear in the wild.
	for _, key := range []string{"footprint", "module"} {
		for _, n := range root.FindAll(key) {
			fp, err := parseFootprint(b, n, codes)
			if err != nil {
				return nil, err
			}
			b.Add(fp, pcb.AddAppend)
		}
	}

	for _, n := range root.FindAll("gr_line") {
		d, err := parseLine(b, n)
		if err != nil {
			return nil, err
		}
		b.Add(d, pcb.AddAppend)
	}

	for _, n := range root.FindAll("zone") {
		z, err := parseZone(b, n, codes)
		if err != nil {
			return nil, err
		}
		b.Add(z, pcb.AddAppend)
	}

	return b, nil
}

func nodePoint(parent *sexpr.Node, key string) (geometry.Point, error) {
	n, ok := parent.Find(key)
	if !ok {
		return geometry.Point{}, fmt.Errorf("boardio: %q missing %q", parent.Key(), key)
	}
	x, err := n.GetFloat(0)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := n.GetFloat(1)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.PointMM(x, y), nil
}

func nodeMM(parent *sexpr.Node, key string) (int, error) {
	n, ok := parent.Find(key)
	if !ok {
		return 0, fmt.Errorf("boardio: %q missing %q", parent.Key(), key)
	}
	v, err := n.GetFloat(0)
	if err != nil {
		return 0, err
	}
	return geometry.FromMM(v), nil
}

// nodeNet resolves an optional (net N) reference through the file's net
// table. Referencing a net the file never declared is a data error.
func nodeNet(parent *sexpr.Node, codes map[int]int) (int, error) {
	n, ok := parent.Find("net")
	if !ok {
		return pcb.UnconnectedNetCode, nil
	}
	code, err := n.GetInt(0)
	if err != nil {
		return 0, err
	}
	mapped, ok := codes[code]
	if !ok {
		return 0, fmt.Errorf("boardio: %q references undeclared net %d", parent.Key(), code)
	}
	return mapped, nil
}

func nodeLayer(b *pcb.Board, parent *sexpr.Node) (pcb.LayerID, error) {
	n, ok := parent.Find("layer")
	if !ok {
		return pcb.UndefinedLayer, fmt.Errorf("boardio: %q missing layer", parent.Key())
	}
	name := n.GetString(0)
	id, ok := b.LayerIDByName(name)
	if !ok {
		return pcb.UndefinedLayer, fmt.Errorf("boardio: unknown layer %q", name)
	}
	return id, nil
}

func parseSegment(b *pcb.Board, n *sexpr.Node, codes map[int]int) (*pcb.Track, error) {
	start, err := nodePoint(n, "start")
	if err != nil {
		return nil, err
	}
	end, err := nodePoint(n, "end")
	if err != nil {
		return nil, err
	}
	width, err := nodeMM(n, "width")
	if err != nil {
		return nil, err
	}
	layer, err := nodeLayer(b, n)
	if err != nil {
		return nil, err
	}
	net, err := nodeNet(n, codes)
	if err != nil {
		return nil, err
	}
	return pcb.NewTrack(start, end, width, layer, net), nil
}

func parseVia(b *pcb.Board, n *sexpr.Node, codes map[int]int) (*pcb.Via, error) {
	pos, err := nodePoint(n, "at")
	if err != nil {
		return nil, err
	}
	size, err := nodeMM(n, "size")
	if err != nil {
		return nil, err
	}
	drill := 0
	if _, ok := n.Find("drill"); ok {
		if drill, err = nodeMM(n, "drill"); err != nil {
			return nil, err
		}
	}
	top, bottom := pcb.FCu, pcb.BCu
	if layers, ok := n.Find("layers"); ok {
		if id, ok := b.LayerIDByName(layers.GetString(0)); ok {
			top = id
		}
		if id, ok := b.LayerIDByName(layers.GetString(1)); ok {
			bottom = id
		}
	}
	net, err := nodeNet(n, codes)
	if err != nil {
		return nil, err
	}
	return pcb.NewVia(pos, size, drill, top, bottom, net), nil
}

func parseFootprint(b *pcb.Board, n *sexpr.Node, codes map[int]int) (*pcb.Footprint, error) {
	libID := pcb.LibID(n.GetString(0))
	layer, err := nodeLayer(b, n)
	if err != nil {
		return nil, err
	}
	at, ok := n.Find("at")
	if !ok {
		return nil, fmt.Errorf("boardio: footprint %q missing placement", libID)
	}
	x, err := at.GetFloat(0)
	if err != nil {
		return nil, err
	}
	y, err := at.GetFloat(1)
	if err != nil {
		return nil, err
	}
	angle := 0.0
	if at.Len() > 3 {
		if angle, err = at.GetFloat(2); err != nil {
			return nil, err
		}
	}
	pos := geometry.PointMM(x, y)

	fp := pcb.NewFootprint(libID, pos, layer)
	if path, ok := n.Find("path"); ok {
		fp.SetPath(path.GetString(0))
	} else if ts, ok := n.Find("tstamp"); ok {
		fp.SetPath(ts.GetString(0))
	}

	// Modern files carry (property "Reference" ...) pairs; legacy files
	// use fp_text reference/value.
	for _, prop := range n.FindAll("property") {
		switch prop.GetString(0) {
		case "Reference":
			fp.SetReference(prop.GetString(1))
		case "Value":
			fp.SetValue(prop.GetString(1))
		}
	}
	for _, ft := range n.FindAll("fp_text") {
		switch ft.GetString(0) {
		case "reference":
			fp.SetReference(ft.GetString(1))
		case "value":
			fp.SetValue(ft.GetString(1))
		}
	}

	for _, pn := range n.FindAll("pad") {
		pad, err := parsePad(b, pn, pos, angle, codes)
		if err != nil {
			return nil, fmt.Errorf("boardio: footprint %s: %w", fp.Reference(), err)
		}
		fp.AddPad(pad)
	}
	return fp, nil
}

func parsePad(b *pcb.Board, n *sexpr.Node, fpPos geometry.Point, fpAngle float64, codes map[int]int) (*pcb.Pad, error) {
	name := n.GetString(0)

	rel, err := nodePoint(n, "at")
	if err != nil {
		return nil, err
	}
	// Pad offsets rotate with the footprint; stored positions are absolute.
	abs := geometry.RotateAbout(fpPos.Add(rel), fpPos, fpAngle)

	sizeNode, ok := n.Find("size")
	if !ok {
		return nil, fmt.Errorf("pad %q missing size", name)
	}
	w, err := sizeNode.GetFloat(0)
	if err != nil {
		return nil, err
	}
	h, err := sizeNode.GetFloat(1)
	if err != nil {
		return nil, err
	}

	lset := pcb.AllCopper()
	if layers, ok := n.Find("layers"); ok {
		lset = 0
		for _, ln := range layers.Items() {
			lset = lset.Union(padLayerSet(b, ln.Text()))
		}
	}

	pad := pcb.NewPad(name, abs, geometry.SizeMM(w, h), lset)
	pad.SetShape(parsePadShape(n.GetString(2)))
	if _, ok := n.Find("drill"); ok {
		drill, err := nodeMM(n, "drill")
		if err != nil {
			return nil, err
		}
		pad.SetDrill(drill)
	}
	net, err := nodeNet(n, codes)
	if err != nil {
		return nil, err
	}
	pad.SetNetCode(net)
	if dieNode, ok := n.Find("die_length"); ok {
		die, err := dieNode.GetFloat(0)
		if err != nil {
			return nil, err
		}
		pad.SetPadToDieLength(geometry.FromMM(die))
	}
	return pad, nil
}

// padLayerSet resolves a pad layer reference, including the *.Cu wildcard.
func padLayerSet(b *pcb.Board, name string) pcb.LayerSet {
	switch name {
	case "*.Cu":
		return pcb.AllCopper()
	case "*.Mask":
		return pcb.NewLayerSet(pcb.FMask, pcb.BMask)
	case "*.Paste":
		return pcb.NewLayerSet(pcb.FPaste, pcb.BPaste)
	}
	if id, ok := b.LayerIDByName(name); ok {
		return pcb.NewLayerSet(id)
	}
	return 0
}

func parsePadShape(s string) pcb.PadShape {
	switch s {
	case "rect":
		return pcb.PadRect
	case "oval":
		return pcb.PadOval
	case "roundrect":
		return pcb.PadRoundRect
	default:
		return pcb.PadCircle
	}
}

func parseLine(b *pcb.Board, n *sexpr.Node) (*pcb.Drawing, error) {
	start, err := nodePoint(n, "start")
	if err != nil {
		return nil, err
	}
	end, err := nodePoint(n, "end")
	if err != nil {
		return nil, err
	}
	layer, err := nodeLayer(b, n)
	if err != nil {
		return nil, err
	}
	width := 0
	if _, ok := n.Find("width"); ok {
		if width, err = nodeMM(n, "width"); err != nil {
			return nil, err
		}
	}
	return pcb.NewLine(start, end, width, layer), nil
}

func parseZone(b *pcb.Board, n *sexpr.Node, codes map[int]int) (*pcb.Zone, error) {
	layer, err := nodeLayer(b, n)
	if err != nil {
		return nil, err
	}
	var outline geometry.Polygon
	if poly, ok := n.Find("polygon"); ok {
		if pts, ok := poly.Find("pts"); ok {
			for _, xy := range pts.FindAll("xy") {
				x, err := xy.GetFloat(0)
				if err != nil {
					return nil, err
				}
				y, err := xy.GetFloat(1)
				if err != nil {
					return nil, err
				}
				outline = append(outline, geometry.PointMM(x, y))
			}
		}
	}
	net, err := nodeNet(n, codes)
	if err != nil {
		return nil, err
	}
	z := pcb.NewZone(net, layer, outline)
	if nn, ok := n.Find("net_name"); ok {
		z.SetNetName(nn.GetString(0))
	}
	if ts, ok := n.Find("tstamp"); ok {
		z.SetUUID(ts.GetString(0))
	}
	if _, ok := n.Find("keepout"); ok {
		z.SetKeepout(true)
	}
	return z, nil
}
