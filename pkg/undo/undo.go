// Package undo carries the picked-item lists that mutating board operations
// fill in so callers can build undo records. The package stores items as
// opaque values; interpretation belongs to the caller that owns the board
// model.
package undo

// Status records what happened to a picked item.
type Status int

const (
	// StatusNew marks an item created by the operation.
	StatusNew Status = iota
	// StatusDeleted marks an item removed from the board but still owned
	// by the pick list.
	StatusDeleted
	// StatusChanged marks an item modified in place; Link holds the
	// pre-change copy.
	StatusChanged
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusDeleted:
		return "deleted"
	case StatusChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Pick is one item touched by an operation.
type Pick struct {
	Item   any
	Status Status
	// Link carries auxiliary state, e.g. the original copy of a changed
	// item.
	Link any
}

// PickList accumulates the picks of one operation, in the order they were
// made.
type PickList struct {
	picks []Pick
}

// Push appends a pick.
func (l *PickList) Push(p Pick) {
	l.picks = append(l.picks, p)
}

// PushItem appends a pick for item with the given status and no link.
func (l *PickList) PushItem(item any, status Status) {
	l.Push(Pick{Item: item, Status: status})
}

// Len returns the number of picks.
func (l *PickList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.picks)
}

// Picks returns the accumulated picks in order.
func (l *PickList) Picks() []Pick {
	if l == nil {
		return nil
	}
	return l.picks
}
