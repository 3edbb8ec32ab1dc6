package atlas

import "testing"

func solidPixels(w, h uint16) []byte {
	return make([]byte, int(w)*int(h))
}

func TestAddImagePlacesWithoutOverlap(t *testing.T) {
	a, err := New(64, WithMinDimension(16), WithMaxDimension(256))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	sizes := []struct{ w, h uint16 }{
		{8, 8}, {16, 4}, {4, 16}, {32, 8}, {8, 32}, {12, 12}, {6, 6}, {20, 5},
	}

	var placed []Rect
	for _, s := range sizes {
		x, y, err := a.AddImage(FormatR8, solidPixels(s.w, s.h), s.w, s.h)
		if err != nil {
			t.Fatalf("AddImage(%d,%d): %v", s.w, s.h, err)
		}
		r := NewRect(x, y, s.w, s.h)
		for _, other := range placed {
			if r.Intersects(other) {
				t.Fatalf("placement %v overlaps existing placement %v", r, other)
			}
		}
		placed = append(placed, r)
	}

	w, h := a.BakedSize()
	for _, r := range placed {
		if r.Right() > w || r.Bottom() > h {
			t.Fatalf("placement %v exceeds baked size %dx%d", r, w, h)
		}
	}
}

func TestAddImageRejectsZeroDimensions(t *testing.T) {
	a, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, _, err := a.AddImage(FormatR8, solidPixels(4, 4), 0, 4); err != ErrInvalidArguments {
		t.Fatalf("want ErrInvalidArguments for zero width, got %v", err)
	}
	if _, _, err := a.AddImage(FormatR8, nil, 4, 4); err != ErrInvalidArguments {
		t.Fatalf("want ErrInvalidArguments for nil pixel data, got %v", err)
	}
}

func TestAddImageRespectsCapacity(t *testing.T) {
	a, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	for i := 0; i < 2; i++ {
		if _, _, err := a.AddImage(FormatR8, solidPixels(4, 4), 4, 4); err != nil {
			t.Fatalf("AddImage #%d: %v", i, err)
		}
	}
	if _, _, err := a.AddImage(FormatR8, solidPixels(4, 4), 4, 4); err != ErrOutOfRange {
		t.Fatalf("want ErrOutOfRange once at capacity, got %v", err)
	}
}

func TestAddImageGrowsCanvasWhenNeeded(t *testing.T) {
	a, err := New(8, WithMinDimension(16), WithMaxDimension(256))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	_, _, err = a.AddImage(FormatR8, solidPixels(64, 64), 64, 64)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	w, h := a.BakedSize()
	if w < 64 || h < 64 {
		t.Fatalf("canvas did not grow to fit: %dx%d", w, h)
	}
}

func TestAddImageRefusesBeyondMaxDimension(t *testing.T) {
	a, err := New(2, WithMinDimension(16), WithMaxDimension(32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, _, err := a.AddImage(FormatR8, solidPixels(64, 64), 64, 64); err != ErrTooLarge {
		t.Fatalf("want ErrTooLarge, got %v", err)
	}
}

func TestRectsReturnsInsertionOrder(t *testing.T) {
	a, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	want := []struct{ w, h uint16 }{{4, 4}, {8, 2}, {2, 8}}
	for _, s := range want {
		if _, _, err := a.AddImage(FormatR8, solidPixels(s.w, s.h), s.w, s.h); err != nil {
			t.Fatalf("AddImage: %v", err)
		}
	}

	rects := a.Rects()
	if len(rects) != len(want) {
		t.Fatalf("got %d rects, want %d", len(rects), len(want))
	}
	for i, s := range want {
		if rects[i].Width != s.w || rects[i].Height != s.h {
			t.Fatalf("rect %d = %v, want %dx%d", i, rects[i], s.w, s.h)
		}
	}
}

func TestNewWithMemoryRejectsUndersizedBacking(t *testing.T) {
	mem, err := NewMemory(2, defaultMaxShelves, defaultMaxWastedRects)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	if _, err := NewWithMemory(8, mem); err != ErrInvalidArguments {
		t.Fatalf("want ErrInvalidArguments, got %v", err)
	}
}

func TestNewWithMemoryReusesBackingAcrossClose(t *testing.T) {
	mem, err := NewMemory(4, defaultMaxShelves, defaultMaxWastedRects)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	a, err := NewWithMemory(4, mem)
	if err != nil {
		t.Fatalf("NewWithMemory: %v", err)
	}
	if _, _, err := a.AddImage(FormatR8, solidPixels(4, 4), 4, 4); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	a.Close()

	if cap(mem.nodes) != 4 {
		t.Fatalf("Close on a borrowed Atlas must not release caller-owned memory")
	}
}

func TestBakeCopiesPixelsToDestination(t *testing.T) {
	a, err := New(2, WithMinDimension(16), WithMaxDimension(32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	pixels := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	x, y, err := a.AddImage(FormatR8, pixels, 2, 2)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}

	w, h := a.BakedSize()
	dst := make([]byte, w*h)
	if err := a.Bake(FormatR8, dst); err != nil {
		t.Fatalf("Bake: %v", err)
	}

	off := int(y)*int(w) + int(x)
	if dst[off] != 0xAA {
		t.Fatalf("baked pixel at (%d,%d) = %#x, want 0xaa", x, y, dst[off])
	}
}
