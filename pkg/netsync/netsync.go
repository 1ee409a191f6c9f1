// Package netsync reconciles a board against a schematic netlist: it adds
// missing footprints, exchanges outdated ones, renames references and
// values, rebinds pad nets, and optionally deletes footprints and
// single-pad nets the netlist no longer justifies.
package netsync

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/report"
)

// Updater runs netlist reconciliation against one board.
type Updater struct {
	board    *pcb.Board
	reporter report.Reporter

	// The planned post-sync pad assignments. Both modes build this the
	// same way, so a dry run judges single-pad nets on the same state a
	// real run leaves behind.
	padSeq  []*pcb.Pad
	padNets map[*pcb.Pad]string
}

// New builds an Updater. The reporter may be nil; messages are then
// discarded and the final validation pass is skipped.
func New(b *pcb.Board, r report.Reporter) *Updater {
	return &Updater{board: b, reporter: r}
}

// Run reconciles the board with nl. In dry-run mode the same decisions are
// made and reported, but the board is left untouched. With
// deleteSinglePadNets set, nets left with a single pad and no zone are
// dissolved. Returns the footprints added to the board, nil in dry-run.
func (u *Updater) Run(nl *netlist.Netlist, deleteSinglePadNets bool) []*pcb.Footprint {
	var added []*pcb.Footprint
	b := u.board
	conn := b.Connectivity()

	u.padSeq = nil
	u.padNets = make(map[*pcb.Pad]string)
	for _, fp := range b.Footprints() {
		u.trackPads(fp)
	}

	defaultPos := u.defaultPlacement()

	for _, comp := range nl.Components() {
		report.Reportf(u.reporter, report.Info, "Checking netlist component footprint \"%s:%s:%s\".",
			comp.Reference, comp.TimeStamp, comp.FPID)

		footprint := u.findBoardFootprint(nl, comp)
		if footprint == nil {
			footprint = u.addComponent(nl, comp, defaultPos, &added)
			if footprint == nil {
				continue
			}
		} else {
			footprint = u.replaceIfNeeded(nl, comp, footprint)
		}

		u.syncIdentity(nl, comp, footprint)
		u.syncPadNets(nl, comp, footprint)
	}

	if nl.DeleteExtraFootprints {
		u.deleteExtra(nl)
	}

	if !nl.DryRun {
		b.BuildListOfNets()
	}

	u.handleSinglePadNets(nl, deleteSinglePadNets)

	if u.reporter != nil {
		u.validate(nl)
	}

	if !nl.DryRun {
		b.SetAreasNetCodesFromNetNames()
		conn.RecalculateRatsnest()
	}
	return added
}

// defaultPlacement picks where new footprints land: below the board outline
// when one exists, the sheet centre otherwise.
func (u *Updater) defaultPlacement() geometry.Point {
	if !u.board.IsEmpty() {
		edges := u.board.BoardEdgesBoundingBox()
		if edges.Width() > 0 || edges.Height() > 0 {
			return geometry.Point{
				X: edges.Centre().X,
				Y: edges.Bottom() + geometry.FromMM(10),
			}
		}
	}
	page := u.board.Config().PageSize
	return geometry.Point{X: page.W / 2, Y: page.H / 2}
}

func (u *Updater) findBoardFootprint(nl *netlist.Netlist, comp *netlist.Component) *pcb.Footprint {
	if nl.FindByTimeStamp {
		return u.board.FindFootprintByPath(comp.TimeStamp)
	}
	return u.board.FindFootprintByReference(comp.Reference)
}

// addComponent places a brand new footprint for comp. Returns nil when the
// library footprint is missing. In dry-run mode the configured clone is
// returned without touching the board, so the follow-up sync steps report
// exactly what a real run would.
func (u *Updater) addComponent(nl *netlist.Netlist, comp *netlist.Component, pos geometry.Point, added *[]*pcb.Footprint) *pcb.Footprint {
	if comp.Footprint == nil {
		report.Reportf(u.reporter, report.Error,
			"Cannot add component %s: footprint %s not found.", comp.Reference, comp.FPID)
		return nil
	}
	report.Reportf(u.reporter, report.Action,
		"Adding new component \"%s:%s\" footprint \"%s\".", comp.Reference, comp.TimeStamp, comp.FPID)

	fp := comp.Footprint.Clone()
	fp.SetReference(comp.Reference)
	fp.SetValue(comp.Value)
	fp.SetPath(comp.TimeStamp)
	if fp.Path() == "" {
		fp.SetPath("/" + uuid.NewString())
	}
	fp.SetPosition(pos)
	u.trackPads(fp)
	if nl.DryRun {
		return fp
	}
	u.board.Add(fp, pcb.AddAppend)
	*added = append(*added, fp)
	return fp
}

// trackPads registers fp's pads in the planned post-sync view.
func (u *Updater) trackPads(fp *pcb.Footprint) {
	for _, pad := range fp.Pads() {
		u.padSeq = append(u.padSeq, pad)
		u.padNets[pad] = pad.NetName()
	}
}

// dropPads takes fp's pads out of the planned view.
func (u *Updater) dropPads(fp *pcb.Footprint) {
	keep := u.padSeq[:0]
	for _, pad := range u.padSeq {
		if pad.Footprint() == fp {
			delete(u.padNets, pad)
			continue
		}
		keep = append(keep, pad)
	}
	u.padSeq = keep
}

// swapPads substitutes repl's pads for old's in the planned view, keeping
// order and the planned net of each same-name pad.
func (u *Updater) swapPads(old, repl *pcb.Footprint) {
	keep := u.padSeq[:0]
	for _, pad := range u.padSeq {
		if pad.Footprint() != old {
			keep = append(keep, pad)
			continue
		}
		name := u.padNets[pad]
		delete(u.padNets, pad)
		if np := repl.FindPadByName(pad.Name()); np != nil {
			u.padNets[np] = name
			keep = append(keep, np)
		}
	}
	u.padSeq = keep
}

// replaceIfNeeded exchanges footprint for comp's library footprint when the
// FPID changed and exchange is enabled. Components without an FPID are left
// alone. Returns the footprint to keep syncing, which is the replacement
// when one was made.
func (u *Updater) replaceIfNeeded(nl *netlist.Netlist, comp *netlist.Component, footprint *pcb.Footprint) *pcb.Footprint {
	if comp.FPID == "" || footprint.LibID() == comp.FPID || !nl.ReplaceFootprints {
		return footprint
	}
	if comp.Footprint == nil {
		report.Reportf(u.reporter, report.Error,
			"Cannot change component %s footprint from %s to %s: footprint not found.",
			comp.Reference, footprint.LibID(), comp.FPID)
		return footprint
	}
	report.Reportf(u.reporter, report.Action,
		"Changing component \"%s:%s\" footprint from \"%s\" to \"%s\".",
		comp.Reference, comp.TimeStamp, footprint.LibID(), comp.FPID)
	if nl.DryRun {
		return footprint
	}

	repl := comp.Footprint.Clone()
	if nl.FindByTimeStamp {
		repl.SetReference(footprint.Reference())
	} else {
		repl.SetPath(footprint.Path())
	}
	footprint.CopyNetlistSettings(repl)
	// Text styling carries over only when the footprint name (library
	// nickname aside) is unchanged; a different footprint keeps its own.
	if footprint.LibID().Item() == comp.FPID.Item() {
		repl.ReferenceText().CopyStyle(footprint.ReferenceText())
		repl.ValueText().CopyStyle(footprint.ValueText())
	}
	repl.SetValue(footprint.Value())

	u.board.Remove(footprint)
	u.board.Add(repl, pcb.AddAppend)
	u.swapPads(footprint, repl)
	return repl
}

// syncIdentity aligns reference, value and sheet path with the netlist.
func (u *Updater) syncIdentity(nl *netlist.Netlist, comp *netlist.Component, fp *pcb.Footprint) {
	if fp.Reference() != comp.Reference {
		report.Reportf(u.reporter, report.Action,
			"Changing footprint \"%s:%s\" reference to \"%s\".",
			fp.Reference(), fp.Path(), comp.Reference)
		if !nl.DryRun {
			fp.SetReference(comp.Reference)
		}
	}
	if fp.Value() != comp.Value {
		report.Reportf(u.reporter, report.Action,
			"Changing footprint \"%s:%s\" value from \"%s\" to \"%s\".",
			fp.Reference(), fp.Path(), fp.Value(), comp.Value)
		if !nl.DryRun {
			fp.SetValue(comp.Value)
		}
	}
	if fp.Path() != comp.TimeStamp {
		report.Reportf(u.reporter, report.Info,
			"Changing component path \"%s:%s\" to \"%s\".",
			fp.Reference(), fp.Path(), comp.TimeStamp)
		if !nl.DryRun {
			fp.SetPath(comp.TimeStamp)
		}
	}
}

// syncPadNets rebinds every pad of fp to the net the netlist gives its pin.
// Pins absent from the netlist lose their net.
func (u *Updater) syncPadNets(nl *netlist.Netlist, comp *netlist.Component, fp *pcb.Footprint) {
	b := u.board
	conn := b.Connectivity()
	for _, pad := range fp.Pads() {
		net, ok := comp.Net(pad.Name())
		if !ok || net.Name == "" {
			if pad.NetName() != "" {
				report.Reportf(u.reporter, report.Action,
					"Clearing component \"%s:%s\" pin \"%s\" net name.",
					fp.Reference(), fp.Path(), pad.Name())
				u.padNets[pad] = ""
				if !nl.DryRun {
					conn.Remove(pad)
					pad.SetNetCode(pcb.UnconnectedNetCode)
					conn.Add(pad)
				}
			}
			continue
		}
		if pad.NetName() == net.Name {
			continue
		}
		report.Reportf(u.reporter, report.Action,
			"Changing component \"%s:%s\" pin \"%s\" net name from \"%s\" to \"%s\".",
			fp.Reference(), fp.Path(), pad.Name(), pad.NetName(), net.Name)
		u.padNets[pad] = net.Name
		if nl.DryRun {
			continue
		}
		netInfo := b.FindNetByName(net.Name)
		if netInfo == nil {
			netInfo = pcb.NewNetInfo(net.Name)
			b.Add(netInfo, pcb.AddAppend)
		}
		conn.Remove(pad)
		pad.SetNetCode(netInfo.Code())
		conn.Add(pad)
	}
}

// deleteExtra removes unlocked board footprints with no netlist
// counterpart.
func (u *Updater) deleteExtra(nl *netlist.Netlist) {
	b := u.board
	victims := make([]*pcb.Footprint, 0)
	for _, fp := range b.Footprints() {
		if fp.IsLocked() {
			continue
		}
		if nl.Lookup(fp.Reference(), fp.Path()) == nil {
			victims = append(victims, fp)
		}
	}
	for _, fp := range victims {
		report.Reportf(u.reporter, report.Action,
			"Removing unused component \"%s:%s\".", fp.Reference(), fp.Path())
		u.dropPads(fp)
		if !nl.DryRun {
			b.Delete(fp)
		}
	}
}

// handleSinglePadNets dissolves nets left with exactly one pad and no zone:
// the pad goes back to net 0 and the net leaves the registry. It judges the
// planned post-sync assignments, which both modes build identically, so a
// dry run reports the same removals a real run performs.
func (u *Updater) handleSinglePadNets(nl *netlist.Netlist, enabled bool) {
	if !enabled {
		return
	}
	b := u.board
	conn := b.Connectivity()

	padCount := make(map[string]int, len(u.padSeq))
	for _, pad := range u.padSeq {
		padCount[u.padNets[pad]]++
	}
	for _, pad := range u.padSeq {
		name := u.padNets[pad]
		if name == "" || padCount[name] != 1 || u.netHasZone(name) {
			continue
		}
		report.Reportf(u.reporter, report.Action,
			"Remove single pad net \"%s\" on \"%s\" pad \"%s\".",
			name, padOwner(pad), pad.Name())
		if nl.DryRun {
			continue
		}
		conn.Remove(pad)
		pad.SetNetCode(pcb.UnconnectedNetCode)
		conn.Add(pad)
		if net := b.FindNetByName(name); net != nil {
			b.Remove(net)
		}
	}
}

// netHasZone reports whether any copper zone claims the named net.
func (u *Updater) netHasZone(name string) bool {
	for _, z := range u.board.Zones() {
		if !z.IsOnCopperLayer() || z.IsKeepout() {
			continue
		}
		if z.NetName() == name {
			return true
		}
		if z.NetName() == "" && u.board.FindNet(z.NetCode()).Name() == name {
			return true
		}
	}
	return false
}

func padOwner(p *pcb.Pad) string {
	if fp := p.Footprint(); fp != nil {
		return fp.Reference()
	}
	return "?"
}

// validate cross-checks the reconciled board: every netlist pin must have a
// pad, and every copper zone's net must still have pads.
func (u *Updater) validate(nl *netlist.Netlist) {
	b := u.board
	for _, comp := range nl.Components() {
		fp := b.FindFootprintByReference(comp.Reference)
		if fp == nil {
			continue
		}
		for _, net := range comp.Nets() {
			if fp.FindPadByName(net.Pin) == nil {
				report.Reportf(u.reporter, report.Error,
					"Component \"%s\" pad \"%s\" not found in footprint \"%s\".",
					comp.Reference, net.Pin, fp.LibID())
			}
		}
	}
	for _, zone := range b.Zones() {
		if !zone.IsOnCopperLayer() || zone.IsKeepout() {
			continue
		}
		if b.Connectivity().PadCountInNet(zone.NetCode()) == 0 {
			report.Reportf(u.reporter, report.Warning,
				"Copper zone (net name \"%s\"): net has no pads connected.", netNameOf(b, zone))
		}
	}
}

func netNameOf(b *pcb.Board, z *pcb.Zone) string {
	if z.NetName() != "" {
		return z.NetName()
	}
	return b.FindNet(z.NetCode()).Name()
}

// ReplaceNetlist is the convenience entry point mirroring Updater.Run.
func ReplaceNetlist(b *pcb.Board, nl *netlist.Netlist, deleteSinglePadNets bool, r report.Reporter) []*pcb.Footprint {
	return New(b, r).Run(nl, deleteSinglePadNets)
}

// Summary renders a one-line outcome for CLI use.
func Summary(added []*pcb.Footprint, c *report.Collector) string {
	return fmt.Sprintf("%d footprints added, %d actions, %d warnings, %d errors",
		len(added),
		c.CountSeverity(report.Action),
		c.CountSeverity(report.Warning),
		c.CountSeverity(report.Error))
}
