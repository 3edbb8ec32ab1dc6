package atlas

import "slices"

// shelf is a horizontal segment along the top edge of the currently
// occupied region, spanning [baseX, baseX+baseWidth) at height baseY.
type shelf struct {
	baseX     uint16
	baseY     uint16
	baseWidth uint32
}

func (s shelf) right() uint32 {
	return uint32(s.baseX) + s.baseWidth
}

// skylineList is the ordered set of shelves described in spec §3/§4.1. It
// is always kept sorted by ascending baseX, covers the canvas width
// exactly once, and never has two adjacent shelves sharing baseY.
type skylineList struct {
	shelves  []shelf
	maxCount int
}

// newSkylineList builds a skyline seeded with a single shelf spanning the
// full width, using shelves as backing storage (its existing capacity
// becomes the shelf-count ceiling).
func newSkylineList(shelves []shelf, width uint16) *skylineList {
	sl := &skylineList{
		shelves:  shelves[:0],
		maxCount: cap(shelves),
	}
	sl.shelves = append(sl.shelves, shelf{baseX: 0, baseY: 0, baseWidth: uint32(width)})
	return sl
}

// insert appends a new shelf, restores ascending-baseX order and merges
// any adjacent shelves that end up sharing a baseY (spec §4.1 Insert).
func (sl *skylineList) insert(baseY, baseX uint16, baseWidth uint32) error {
	if baseWidth == 0 {
		return nil
	}
	if len(sl.shelves) == sl.maxCount {
		return ErrTooManyShelves
	}
	sl.shelves = append(sl.shelves, shelf{baseX: baseX, baseY: baseY, baseWidth: baseWidth})
	slices.SortStableFunc(sl.shelves, func(a, b shelf) int {
		switch {
		case a.baseX < b.baseX:
			return -1
		case a.baseX > b.baseX:
			return 1
		default:
			return 0
		}
	})
	sl.merge()
	return nil
}

// merge collapses adjacent shelves that share the same baseY into one,
// summing their widths. Runs as a single linear pass post-insert rather
// than as a generic sort, per the design notes.
func (sl *skylineList) merge() {
	for i := 0; i < len(sl.shelves)-1; i++ {
		if sl.shelves[i].baseY == sl.shelves[i+1].baseY {
			sl.shelves[i].baseWidth += sl.shelves[i+1].baseWidth
			sl.shelves = slices.Delete(sl.shelves, i+1, i+2)
			i--
		}
	}
}

// removeAt deletes the shelf at index i, shifting higher indices down.
func (sl *skylineList) removeAt(i int) {
	sl.shelves = slices.Delete(sl.shelves, i, i+1)
}

// reconcileShadow trims or removes every shelf the newly placed rectangle
// (placementX, placementY, placementWidth) now shadows, harvesting the
// obscured area as wasted space. Implements spec §4.1
// Find-and-reconcile-shadow.
func (sl *skylineList) reconcileShadow(placementX, placementY uint16, placementWidth uint32, pool *wastedPool) {
	rightPos := uint32(placementX) + placementWidth

	for i := 0; i < len(sl.shelves); i++ {
		s := sl.shelves[i]
		bx, by, bw := uint32(s.baseX), s.baseY, s.baseWidth

		if !(uint32(placementX) < bx && rightPos > bx && placementY >= by) {
			continue
		}

		baseRight := bx + bw
		if rightPos < baseRight {
			pool.add(NewRect(s.baseX, by, uint16(rightPos-bx), placementY-by))
			sl.shelves[i].baseWidth = baseRight - rightPos
			sl.shelves[i].baseX = uint16(rightPos)
			continue
		}

		pool.add(NewRect(s.baseX, by, uint16(bw), placementY-by))
		sl.removeAt(i)
		i--
	}
}
