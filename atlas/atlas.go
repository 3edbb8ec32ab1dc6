// Package atlas implements an online skyline-with-wasted-space rectangle
// packer for building texture atlases: small images are presented one at a
// time and placed at a non-overlapping position inside a growing,
// power-of-two canvas.
package atlas

const (
	defaultMinDimension   = 16
	defaultMaxDimension   = 8192
	defaultMaxShelves     = 128
	defaultMaxWastedRects = 512
)

// imageNode records where a caller's pixel data was placed. The packer
// never copies or reads the pixel buffer until Bake is called; it holds
// only a non-owning reference.
type imageNode struct {
	Rect
	Format    PixelFormat
	PixelData []byte
}

// Memory is caller-owned backing storage for an Atlas. Allocating it once
// and reusing it across atlases (via NewWithMemory) avoids the allocation
// New performs internally.
type Memory struct {
	nodes   []imageNode
	shelves []shelf
	wasted  []Rect
}

// NewMemory allocates backing storage sized for maxImages images,
// maxShelves skyline shelves and maxWastedRects wasted-space rectangles.
func NewMemory(maxImages, maxShelves, maxWastedRects int) (*Memory, error) {
	if maxImages <= 0 || maxShelves <= 0 || maxWastedRects <= 0 {
		return nil, ErrInvalidArguments
	}
	return &Memory{
		nodes:   make([]imageNode, 0, maxImages),
		shelves: make([]shelf, 0, maxShelves),
		wasted:  make([]Rect, 0, maxWastedRects),
	}, nil
}

// CalculateMemorySize reports how many image, shelf and wasted-rect slots
// a Memory sized for maxImages images (with the given shelf/wasted-rect
// ceilings) would hold. Mirrors K15_IACalculateAtlasMemorySizeInBytes from
// the reference implementation, expressed as element counts rather than
// bytes since Go callers size slices, not raw buffers.
func CalculateMemorySize(maxImages, maxShelves, maxWastedRects int) (images, shelves, wastedRects int) {
	return maxImages, maxShelves, maxWastedRects
}

type config struct {
	minDimension   uint16
	maxDimension   uint16
	maxShelves     int
	maxWastedRects int
}

func defaultConfig() config {
	return config{
		minDimension:   defaultMinDimension,
		maxDimension:   defaultMaxDimension,
		maxShelves:     defaultMaxShelves,
		maxWastedRects: defaultMaxWastedRects,
	}
}

func (c config) validate() error {
	if c.minDimension < 8 || !isPowerOfTwo(c.minDimension) {
		return ErrInvalidArguments
	}
	if c.maxDimension <= c.minDimension || !isPowerOfTwo(c.maxDimension) {
		return ErrInvalidArguments
	}
	if c.maxShelves <= 0 || c.maxWastedRects <= 0 {
		return ErrInvalidArguments
	}
	return nil
}

func isPowerOfTwo(v uint16) bool {
	return v != 0 && v&(v-1) == 0
}

// Option configures an Atlas at construction time.
type Option func(*config)

// WithMinDimension sets the initial (and minimum) canvas dimension.
// Default 16; must be at least 8.
func WithMinDimension(d uint16) Option {
	return func(c *config) { c.minDimension = d }
}

// WithMaxDimension sets the ceiling the growth policy will not cross.
// Default 8192; must be greater than the minimum dimension.
func WithMaxDimension(d uint16) Option {
	return func(c *config) { c.maxDimension = d }
}

// WithMaxShelves bounds the skyline shelf list. Default 128.
func WithMaxShelves(n int) Option {
	return func(c *config) { c.maxShelves = n }
}

// WithMaxWastedRects bounds the wasted-space pool. Default 512.
func WithMaxWastedRects(n int) Option {
	return func(c *config) { c.maxWastedRects = n }
}

// Atlas is the online rectangle packer. It is not safe for concurrent use:
// AddImage mutates the skyline and wasted-space pool, so even concurrent
// readers of Rects/BakedSize race with a concurrent AddImage.
type Atlas struct {
	width, height uint16
	minDimension  uint16
	maxDimension  uint16

	skyline *skylineList
	wasted  *wastedPool
	nodes   []imageNode

	maxImages int
	owned     bool
}

func newAtlas(maxImages int, mem *Memory, cfg config, owned bool) *Atlas {
	a := &Atlas{
		width:        cfg.minDimension,
		height:       cfg.minDimension,
		minDimension: cfg.minDimension,
		maxDimension: cfg.maxDimension,
		skyline:      newSkylineList(mem.shelves, cfg.minDimension),
		wasted:       newWastedPool(mem.wasted),
		nodes:        mem.nodes,
		maxImages:    maxImages,
		owned:        owned,
	}
	return a
}

// New creates a packer able to hold up to maxImages images.
func New(maxImages int, opts ...Option) (*Atlas, error) {
	if maxImages <= 0 {
		return nil, ErrInvalidArguments
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mem, err := NewMemory(maxImages, cfg.maxShelves, cfg.maxWastedRects)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	return newAtlas(maxImages, mem, cfg, true), nil
}

// NewWithMemory creates a packer able to hold up to maxImages images,
// using caller-supplied backing storage instead of allocating its own.
// mem must have been sized for at least maxImages images and the
// configured shelf/wasted-rect ceilings (see NewMemory).
func NewWithMemory(maxImages int, mem *Memory, opts ...Option) (*Atlas, error) {
	if maxImages <= 0 || mem == nil {
		return nil, ErrInvalidArguments
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cap(mem.nodes) < maxImages || cap(mem.shelves) < cfg.maxShelves || cap(mem.wasted) < cfg.maxWastedRects {
		return nil, ErrInvalidArguments
	}

	return newAtlas(maxImages, mem, cfg, false), nil
}

// Close releases storage the Atlas allocated itself (via New). When the
// Atlas was constructed with NewWithMemory, the caller retains ownership
// of the backing Memory and Close is a no-op on it.
func (a *Atlas) Close() {
	if !a.owned {
		return
	}
	a.nodes = nil
	a.skyline.shelves = nil
	a.wasted.rects = nil
}

// BakedSize returns the current canvas dimensions.
func (a *Atlas) BakedSize() (width, height uint32) {
	return uint32(a.width), uint32(a.height)
}

// Rects returns every rectangle placed so far, in insertion order. The
// returned slice is a fresh copy; modifying it does not affect the Atlas.
func (a *Atlas) Rects() []Rect {
	rects := make([]Rect, len(a.nodes))
	for i, n := range a.nodes {
		rects[i] = n.Rect
	}
	return rects
}

// AddImage records pixelData (w x h, in the given format) and places it
// according to the packing algorithm in placement.go, growing the canvas
// as needed. It returns the position the image was placed at.
func (a *Atlas) AddImage(format PixelFormat, pixelData []byte, w, h uint16) (x, y uint16, err error) {
	if pixelData == nil || w == 0 || h == 0 {
		return 0, 0, ErrInvalidArguments
	}
	if len(a.nodes) >= a.maxImages {
		return 0, 0, ErrOutOfRange
	}

	x, y, err = a.place(w, h)
	if err != nil {
		return 0, 0, err
	}

	a.nodes = append(a.nodes, imageNode{
		Rect:      NewRect(x, y, w, h),
		Format:    format,
		PixelData: pixelData,
	})
	return x, y, nil
}
