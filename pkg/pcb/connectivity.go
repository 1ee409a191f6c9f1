package pcb

// RatsnestEdge is one unrouted connection between two pads.
type RatsnestEdge struct {
	From, To *Pad
}

// ConnectivityProvider is the incremental copper connectivity collaborator a
// board notifies on every item change. The board works with any
// implementation; a no-op one is used when none is injected.
type ConnectivityProvider interface {
	// Add registers an item that just joined the board.
	Add(item Item)
	// Remove unregisters an item about to leave the board.
	Remove(item Item)
	// Build discards state and reloads from the board's current contents.
	Build(b *Board)
	// RecalculateRatsnest recomputes the unrouted connection list.
	RecalculateRatsnest()

	// PadCount returns the number of registered pads.
	PadCount() int
	// PadCountInNet returns the number of registered pads on a net.
	PadCountInNet(netCode int) int
	// PadList returns the registered pads sorted by net code.
	PadList() []*Pad
	// UnconnectedCount returns the number of missing connections across
	// all nets.
	UnconnectedCount() int
	// RatsnestForNet returns the unrouted edges of one net.
	RatsnestForNet(netCode int) []RatsnestEdge
	// NetItems returns the registered items of a net, filtered by kind.
	NetItems(netCode int, kinds ...Kind) []Item
}

// nopConnectivity satisfies ConnectivityProvider for boards built without a
// connectivity engine.
type nopConnectivity struct{}

func (nopConnectivity) Add(Item)                            {}
func (nopConnectivity) Remove(Item)                         {}
func (nopConnectivity) Build(*Board)                        {}
func (nopConnectivity) RecalculateRatsnest()                {}
func (nopConnectivity) PadCount() int                       { return 0 }
func (nopConnectivity) PadCountInNet(int) int               { return 0 }
func (nopConnectivity) PadList() []*Pad                     { return nil }
func (nopConnectivity) UnconnectedCount() int               { return 0 }
func (nopConnectivity) RatsnestForNet(int) []RatsnestEdge   { return nil }
func (nopConnectivity) NetItems(int, ...Kind) []Item        { return nil }
