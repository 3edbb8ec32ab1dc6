package atlas

import "slices"

// wastedPool is the bounded collection of free rectangles recovered when
// a placement shadows part of a lower shelf (spec §3 invariants 5-6,
// §4.2). When full, further production is silently dropped.
type wastedPool struct {
	rects    []Rect
	maxCount int
}

// newWastedPool builds an empty wasted-space pool using rects as backing
// storage (its existing capacity becomes the pool's ceiling).
func newWastedPool(rects []Rect) *wastedPool {
	return &wastedPool{rects: rects[:0], maxCount: cap(rects)}
}

// add appends a free rectangle, or silently drops it if the pool is full.
// Never reports an error.
func (p *wastedPool) add(r Rect) {
	if r.IsEmpty() {
		return
	}
	if len(p.rects) == p.maxCount {
		return
	}
	p.rects = append(p.rects, r)
}

// bestFit scans every free rectangle and returns the index of the one
// that fits (nodeW, nodeH) while minimizing area; ties favor the first
// occurrence. Reports ok=false if nothing fits.
func (p *wastedPool) bestFit(nodeW, nodeH uint16) (index int, x, y uint16, ok bool) {
	bestArea := ^uint32(0)
	bestIndex := -1

	for i, r := range p.rects {
		if r.Width >= nodeW && r.Height >= nodeH {
			area := r.Area()
			if area < bestArea {
				bestArea = area
				bestIndex = i
				if bestArea == 0 {
					break
				}
			}
		}
	}

	if bestIndex == -1 {
		return 0, 0, 0, false
	}
	return bestIndex, p.rects[bestIndex].X, p.rects[bestIndex].Y, true
}

// consume removes-or-trims the free rectangle at index against a placed
// (nodeW x nodeH) rectangle anchored at its top-left corner, per spec
// §4.2 Consume.
func (p *wastedPool) consume(index int, nodeW, nodeH uint16) {
	r := p.rects[index]

	switch {
	case r.Width == nodeW && r.Height > nodeH:
		p.rects[index].Y += nodeH
		p.rects[index].Height -= nodeH
	case r.Height == nodeH && r.Width > nodeW:
		p.rects[index].X += nodeW
		p.rects[index].Width -= nodeW
	default:
		p.rects = slices.Delete(p.rects, index, index+1)

		restWidth := r.Width - nodeW
		restHeight := r.Height - nodeH
		if restWidth == 0 || restHeight == 0 {
			return
		}

		lowerX, lowerY := r.X, r.Y+nodeH
		rightX, rightY := r.X+nodeW, r.Y

		if restWidth > restHeight {
			p.add(NewRect(rightX, rightY, restWidth, r.Height))
			p.add(NewRect(lowerX, lowerY, nodeW, restHeight))
		} else {
			p.add(NewRect(lowerX, lowerY, r.Width, restHeight))
			p.add(NewRect(rightX, rightY, restWidth, nodeH))
		}
	}
}
