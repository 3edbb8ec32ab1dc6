package atlas

import "testing"

func newTestSkyline(width uint16, maxShelves int) *skylineList {
	return newSkylineList(make([]shelf, 0, maxShelves), width)
}

func TestSkylineListStartsAsSingleShelf(t *testing.T) {
	sl := newTestSkyline(64, 8)
	if len(sl.shelves) != 1 {
		t.Fatalf("got %d shelves, want 1", len(sl.shelves))
	}
	if sl.shelves[0].baseWidth != 64 {
		t.Fatalf("baseWidth = %d, want 64", sl.shelves[0].baseWidth)
	}
}

func TestSkylineInsertKeepsAscendingOrder(t *testing.T) {
	sl := newTestSkyline(64, 8)
	sl.shelves = []shelf{{baseX: 0, baseY: 4, baseWidth: 10}}
	if err := sl.insert(8, 20, 10); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := sl.insert(2, 10, 10); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i := 1; i < len(sl.shelves); i++ {
		if sl.shelves[i-1].baseX > sl.shelves[i].baseX {
			t.Fatalf("shelves out of order: %+v", sl.shelves)
		}
	}
}

func TestSkylineInsertMergesSameHeightNeighbors(t *testing.T) {
	sl := newTestSkyline(64, 8)
	sl.shelves = []shelf{{baseX: 0, baseY: 4, baseWidth: 10}}
	if err := sl.insert(4, 10, 10); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(sl.shelves) != 1 {
		t.Fatalf("got %d shelves, want 1 after merge", len(sl.shelves))
	}
	if sl.shelves[0].baseWidth != 20 {
		t.Fatalf("merged baseWidth = %d, want 20", sl.shelves[0].baseWidth)
	}
}

func TestSkylineInsertRejectsBeyondCapacity(t *testing.T) {
	sl := newTestSkyline(64, 1)
	if err := sl.insert(8, 40, 10); err != ErrTooManyShelves {
		t.Fatalf("want ErrTooManyShelves, got %v", err)
	}
}

func TestReconcileShadowTrimsPartiallyObscuredShelf(t *testing.T) {
	sl := newTestSkyline(64, 8)
	sl.shelves = []shelf{{baseX: 10, baseY: 0, baseWidth: 30}}
	pool := newWastedPool(make([]Rect, 0, 8))

	sl.reconcileShadow(0, 8, 30, pool)

	if len(sl.shelves) != 1 {
		t.Fatalf("got %d shelves, want 1", len(sl.shelves))
	}
	if sl.shelves[0].baseX != 30 || sl.shelves[0].baseWidth != 10 {
		t.Fatalf("trimmed shelf = %+v, want baseX=30 baseWidth=10", sl.shelves[0])
	}
	if len(pool.rects) != 1 {
		t.Fatalf("got %d wasted rects, want 1", len(pool.rects))
	}
}

func TestReconcileShadowRemovesFullyObscuredShelf(t *testing.T) {
	sl := newTestSkyline(64, 8)
	sl.shelves = []shelf{
		{baseX: 10, baseY: 0, baseWidth: 10},
		{baseX: 20, baseY: 2, baseWidth: 10},
	}
	pool := newWastedPool(make([]Rect, 0, 8))

	sl.reconcileShadow(0, 8, 30, pool)

	if len(sl.shelves) != 0 {
		t.Fatalf("got %d shelves, want 0", len(sl.shelves))
	}
	if len(pool.rects) != 2 {
		t.Fatalf("got %d wasted rects, want 2", len(pool.rects))
	}
}
