package pcb

// SearchResult steers a Visit traversal.
type SearchResult int

const (
	// SearchContinue proceeds to the next item.
	SearchContinue SearchResult = iota
	// SearchQuitBranch skips the rest of the current container (e.g. the
	// remaining children of a footprint) and continues with its sibling.
	SearchQuitBranch
	// SearchQuit stops the whole traversal.
	SearchQuit
)

// Inspector examines one item during a Visit traversal.
type Inspector func(item Item) SearchResult

// Visit walks the board's items in a fixed order, calling inspect on every
// item whose kind appears in the filter. The order is: the board itself,
// footprints (each footprint, then its pads, then its texts), drawings,
// vias, track segments, markers, zone outlines, zone fill segments.
// Duplicate kinds in the filter are visited once. Returns SearchQuit when
// the inspector stopped the scan, SearchContinue otherwise.
func (b *Board) Visit(inspect Inspector, kinds ...Kind) SearchResult {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	if want[KindBoard] {
		if inspect(b) == SearchQuit {
			return SearchQuit
		}
	}

	if want[KindFootprint] || want[KindPad] || want[KindText] {
		for _, fp := range b.footprints {
			if r := visitFootprint(fp, inspect, want); r == SearchQuit {
				return SearchQuit
			}
		}
	}

	if want[KindDrawing] {
		for _, d := range b.drawings {
			if inspect(d) == SearchQuit {
				return SearchQuit
			}
		}
	}

	// Vias and segments share the track list but are distinct scan kinds;
	// vias come first.
	if want[KindVia] {
		for _, t := range b.tracks {
			if t.Kind() != KindVia {
				continue
			}
			if inspect(t) == SearchQuit {
				return SearchQuit
			}
		}
	}
	if want[KindTrack] {
		for _, t := range b.tracks {
			if t.Kind() != KindTrack {
				continue
			}
			if inspect(t) == SearchQuit {
				return SearchQuit
			}
		}
	}

	if want[KindMarker] {
		for _, m := range b.markers {
			if inspect(m) == SearchQuit {
				return SearchQuit
			}
		}
	}

	if want[KindZone] {
		for _, z := range b.zones {
			if inspect(z) == SearchQuit {
				return SearchQuit
			}
		}
	}

	if want[KindZoneFill] {
		for _, s := range b.zoneFills {
			if inspect(s) == SearchQuit {
				return SearchQuit
			}
		}
	}

	return SearchContinue
}

// visitFootprint scans one footprint and its children. SearchQuitBranch
// from any child aborts the rest of this footprint only.
func visitFootprint(fp *Footprint, inspect Inspector, want map[Kind]bool) SearchResult {
	if want[KindFootprint] {
		switch inspect(fp) {
		case SearchQuit:
			return SearchQuit
		case SearchQuitBranch:
			return SearchContinue
		}
	}
	if want[KindPad] {
		for _, p := range fp.pads {
			switch inspect(p) {
			case SearchQuit:
				return SearchQuit
			case SearchQuitBranch:
				return SearchContinue
			}
		}
	}
	if want[KindText] {
		texts := []*Text{fp.refText, fp.valueText}
		texts = append(texts, fp.texts...)
		for _, t := range texts {
			switch inspect(t) {
			case SearchQuit:
				return SearchQuit
			case SearchQuitBranch:
				return SearchContinue
			}
		}
	}
	return SearchContinue
}
