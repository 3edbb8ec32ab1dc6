package atlas

// place finds a non-overlapping position for a (w x h) rectangle,
// growing the canvas as needed. Implements the outer retry loop of spec
// §4.5: attempt placement, and on "too small" grow the canvas once and
// retry, until placement succeeds or growth is refused. Canvas size and
// shelf layout are snapshotted up front and restored on any error, so a
// failed call leaves the atlas exactly as it found it even after one or
// more successful intermediate growths.
func (a *Atlas) place(w, h uint16) (x, y uint16, err error) {
	width, height := a.width, a.height
	shelves := append([]shelf(nil), a.skyline.shelves...)

	for {
		x, y, err = a.attemptPlacement(w, h)
		if err == nil {
			return x, y, nil
		}
		if err == errTooSmall {
			if growErr := a.growOnce(); growErr == nil {
				continue
			} else {
				err = growErr
			}
		}
		a.width, a.height = width, height
		a.skyline.shelves = append(a.skyline.shelves[:0], shelves...)
		return 0, 0, err
	}
}

// attemptPlacement runs one pass of §4.4: wasted-space first (Phase 1),
// then a skyline scan scored by the placement heuristic (Phase 2),
// followed by shadow reconciliation (Phase 3). Returns errTooSmall if no
// candidate position exists on the current canvas.
func (a *Atlas) attemptPlacement(w, h uint16) (x, y uint16, err error) {
	if idx, fx, fy, ok := a.wasted.bestFit(w, h); ok {
		a.wasted.consume(idx, w, h)
		a.skyline.reconcileShadow(fx, fy, uint32(w), a.wasted)
		return fx, fy, nil
	}

	bestIndex := -1
	var bestScore uint64
	shelves := a.skyline.shelves

	for i, s := range shelves {
		if uint32(a.height)-uint32(s.baseY) < uint32(h) {
			continue
		}
		if uint32(s.baseX)+uint32(w) > uint32(a.width) {
			continue
		}

		if s.baseWidth < uint32(w) {
			if shelfOverhangCollides(shelves, i, s, w) {
				continue
			}
		}

		score := placementHeuristic(s.baseX, s.baseY, w, shelves)
		if bestIndex == -1 || score < bestScore {
			bestIndex = i
			bestScore = score
		}
	}

	if bestIndex == -1 {
		return 0, 0, errTooSmall
	}

	chosen := shelves[bestIndex]
	x, y = chosen.baseX, chosen.baseY

	if chosen.baseWidth > uint32(w) {
		a.skyline.shelves[bestIndex].baseX = x + w
		a.skyline.shelves[bestIndex].baseWidth = chosen.baseWidth - uint32(w)
	} else {
		a.skyline.removeAt(bestIndex)
	}

	if err := a.skyline.insert(y+h, x, uint32(w)); err != nil {
		return 0, 0, err
	}

	a.skyline.reconcileShadow(x, y, uint32(w), a.wasted)
	return x, y, nil
}

// shelfOverhangCollides reports whether placing a rectangle of width w at
// shelf i (whose own baseWidth is narrower than w, so the rectangle
// overhangs its right-hand neighbours) would poke above any of those
// neighbouring shelves. Implements spec §4.4 Phase 2 step 2.
func shelfOverhangCollides(shelves []shelf, i int, s shelf, w uint16) bool {
	rightEdge := uint32(s.baseX) + uint32(w)
	for j := i + 1; j < len(shelves); j++ {
		if uint32(shelves[j].baseX) > rightEdge {
			break
		}
		if shelves[j].baseY > s.baseY {
			return true
		}
	}
	return false
}

// placementHeuristic scores a candidate shelf position: the total area of
// every shelf shadowed beneath the candidate rectangle's span, i.e. how
// much empty space would be trapped underneath it. Zero means a flush
// placement with nothing wasted. Lower is better. Implements spec §4.4's
// scoring rule, correcting the reference implementation's self-comparison
// defect (spec §9): the scan tests each shelf's baseX against the
// candidate span [bx, bx+nodeW), not against itself.
func placementHeuristic(bx, by uint16, nodeW uint16, shelves []shelf) uint64 {
	spanLeft := uint32(bx)
	spanRight := spanLeft + uint32(nodeW)

	var total uint64
	for _, s := range shelves {
		if uint32(s.baseX) < spanLeft || uint32(s.baseX) >= spanRight {
			continue
		}
		right := min32(s.right(), spanRight)
		width := right - uint32(s.baseX)
		total += uint64(width) * uint64(by-s.baseY)
	}
	return total
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
