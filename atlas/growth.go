package atlas

// growOnce doubles the smaller of width/height (width wins ties), failing
// if the result would exceed maxDimension. Implements spec §4.3
// Grow-once, including the "insert or extend a bottom shelf" rule for
// width growth.
func (a *Atlas) growOnce() error {
	width, height := a.width, a.height

	var newWidth, newHeight uint32
	if width <= height {
		newWidth, newHeight = uint32(width)*2, uint32(height)
	} else {
		newWidth, newHeight = uint32(width), uint32(height)*2
	}

	if newWidth > uint32(a.maxDimension) || newHeight > uint32(a.maxDimension) {
		return ErrTooLarge
	}

	widthExtend := newWidth - uint32(width)
	a.width, a.height = uint16(newWidth), uint16(newHeight)

	if widthExtend > 0 {
		found := false
		for i := range a.skyline.shelves {
			if a.skyline.shelves[i].baseY == 0 {
				a.skyline.shelves[i].baseWidth += widthExtend
				found = true
			}
		}
		if !found {
			// insert's own capacity check surfaces as too-many-shelves,
			// which the caller should treat the same as too-large here:
			// the canvas cannot usefully grow further.
			if err := a.skyline.insert(0, width, widthExtend); err != nil {
				return err
			}
		}
	}

	return nil
}

// growToFit repeatedly grows the canvas until it is at least minW x minH,
// or reports the first error encountered (spec §4.3 Grow-to-fit).
func (a *Atlas) growToFit(minW, minH uint16) error {
	for a.width < minW || a.height < minH {
		if err := a.growOnce(); err != nil {
			return err
		}
	}
	return nil
}
