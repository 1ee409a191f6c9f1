package pcb

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// AddArea creates a new zone with a single starting corner, appends it to
// the board and records it in picked for undo.
func (b *Board) AddArea(picked *undo.PickList, netCode int, layer LayerID, start geometry.Point, hatch HatchStyle) *Zone {
	z := NewZone(netCode, layer, geometry.Polygon{start})
	z.SetHatch(hatch)
	b.Add(z, AddAppend)
	if picked != nil {
		picked.PushItem(z, undo.StatusNew)
	}
	return z
}

// InsertArea places a pre-built zone into the board's zone list at idx,
// appending when idx is out of range.
func (b *Board) InsertArea(z *Zone, idx int) {
	if idx < 0 || idx >= len(b.zones) {
		b.zones = append(b.zones, z)
	} else {
		b.zones = append(b.zones, nil)
		copy(b.zones[idx+1:], b.zones[idx:])
		b.zones[idx] = z
	}
	z.attach(b)
	b.conn.Add(z)
}

// RemoveArea takes a zone off the board. With a pick list the zone is kept
// alive as a deleted pick; without one it is released.
func (b *Board) RemoveArea(picked *undo.PickList, z *Zone) {
	if z == nil {
		return
	}
	if picked != nil {
		b.Remove(z)
		picked.PushItem(z, undo.StatusDeleted)
		return
	}
	b.Delete(z)
}

// NormalizeAreaPolygon checks a zone outline after editing. A
// self-intersecting outline is handed to the configured polygon normalizer;
// the first resulting polygon replaces the zone outline and any further ones
// become new zones. Without a normalizer, or when normalization yields
// nothing, the zone is removed (recorded as deleted in picked); a surviving
// zone is recorded as changed. Returns whether the zone survived.
func (b *Board) NormalizeAreaPolygon(picked *undo.PickList, z *Zone) bool {
	if z == nil {
		return false
	}
	if len(z.outline) < 3 {
		b.RemoveArea(picked, z)
		return false
	}
	if z.outline.SelfIntersecting() {
		if b.cfg.PolygonNormalizer == nil {
			b.RemoveArea(picked, z)
			return false
		}
		parts := b.cfg.PolygonNormalizer.Normalize(z.outline)
		if len(parts) == 0 || len(parts[0]) < 3 {
			b.RemoveArea(picked, z)
			return false
		}
		z.SetOutline(parts[0])
		for _, pg := range parts[1:] {
			if len(pg) < 3 {
				continue
			}
			extra := NewZone(z.netCode, z.layer, pg)
			extra.SetNetName(z.netName)
			extra.SetHatch(z.hatch)
			b.InsertArea(extra, -1)
			if picked != nil {
				picked.PushItem(extra, undo.StatusNew)
			}
		}
	}
	if picked != nil {
		picked.Push(undo.Pick{Item: z, Status: undo.StatusChanged, Link: z.Clone()})
	}
	return true
}

// HitTestForAnyFilledArea returns the first copper zone whose fill covers
// pos on a layer between startLayer and endLayer. With a non-negative
// netCode only that net's zones match. Zones are checked in list order.
func (b *Board) HitTestForAnyFilledArea(pos geometry.Point, startLayer, endLayer LayerID, netCode int) *Zone {
	if startLayer > endLayer {
		startLayer, endLayer = endLayer, startLayer
	}
	for _, z := range b.zones {
		if !z.IsOnCopperLayer() || z.IsKeepout() {
			continue
		}
		if z.layer < startLayer || z.layer > endLayer {
			continue
		}
		if netCode >= 0 && z.netCode != netCode {
			continue
		}
		if z.HitTestFilledArea(pos) {
			return z
		}
	}
	return nil
}

// SetAreasNetCodesFromNetNames re-resolves every copper zone's net code
// from its saved net name, after nets were renumbered by a netlist import.
// Zones whose net no longer exists go to the unconnected net. Returns the
// number of zones whose name failed to resolve.
func (b *Board) SetAreasNetCodesFromNetNames() int {
	errors := 0
	for _, z := range b.zones {
		if !z.IsOnCopperLayer() {
			z.netCode = UnconnectedNetCode
			continue
		}
		if z.netName == "" {
			z.netCode = UnconnectedNetCode
			continue
		}
		net := b.FindNetByName(z.netName)
		if net == nil {
			z.netCode = UnconnectedNetCode
			errors++
			continue
		}
		z.netCode = net.Code()
	}
	return errors
}
