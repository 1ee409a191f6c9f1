package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// UnconnectedNetCode is the reserved net code for items on no net. Every
// board owns a net with this code and an empty name.
const UnconnectedNetCode = 0

// NetInfo is one electrical net: a code unique within its board and a name.
type NetInfo struct {
	itemBase
	code int
	name string
}

// NewNetInfo builds a net with a name only; the board assigns the code when
// the net is added.
func NewNetInfo(name string) *NetInfo {
	return &NetInfo{code: -1, name: name}
}

func (n *NetInfo) Kind() Kind { return KindNetInfo }

// Code returns the board-assigned net code.
func (n *NetInfo) Code() int { return n.code }

// Name returns the net name, "" for the unconnected net.
func (n *NetInfo) Name() string { return n.name }

// IsUnconnected reports whether this is the reserved no-net entry.
func (n *NetInfo) IsUnconnected() bool { return n.code == UnconnectedNetCode }

func (n *NetInfo) Position() geometry.Point   { return geometry.Point{} }
func (n *NetInfo) BoundingBox() geometry.Rect { return geometry.NewRect() }

// orphanedNet is returned by code lookups that miss, so callers can chain
// .Name() without a nil check. Its code is invalid on purpose.
var orphanedNet = &NetInfo{code: -1, name: "orphaned"}

// OrphanedNet returns the sentinel net handed out for unknown net codes.
func OrphanedNet() *NetInfo { return orphanedNet }

// netRegistry owns a board's nets. Codes index the items slice; removed
// nets leave nil holes so surviving codes stay stable.
type netRegistry struct {
	items  []*NetInfo
	byName map[string]*NetInfo
}

func newNetRegistry(b *Board) *netRegistry {
	r := &netRegistry{byName: make(map[string]*NetInfo)}
	unconnected := &NetInfo{code: UnconnectedNetCode, name: ""}
	unconnected.attach(b)
	r.items = append(r.items, unconnected)
	r.byName[""] = unconnected
	return r
}

// append assigns the next free code to n and registers it.
func (r *netRegistry) append(n *NetInfo) {
	n.code = len(r.items)
	r.items = append(r.items, n)
	r.byName[n.name] = n
}

// remove unregisters n. The unconnected net cannot be removed. Other codes
// keep their values; the freed slot is left nil.
func (r *netRegistry) remove(n *NetInfo) {
	if n == nil || n.code == UnconnectedNetCode {
		return
	}
	if n.code > 0 && n.code < len(r.items) && r.items[n.code] == n {
		r.items[n.code] = nil
		delete(r.byName, n.name)
		n.code = -1
	}
}

// byCode returns the net with the given code, or nil.
func (r *netRegistry) byCode(code int) *NetInfo {
	if code < 0 || code >= len(r.items) {
		return nil
	}
	return r.items[code]
}

// count returns the number of live nets, including the unconnected net.
func (r *netRegistry) count() int {
	n := 0
	for _, item := range r.items {
		if item != nil {
			n++
		}
	}
	return n
}

// all returns the live nets in code order.
func (r *netRegistry) all() []*NetInfo {
	out := make([]*NetInfo, 0, len(r.items))
	for _, item := range r.items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}
