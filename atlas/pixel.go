package atlas

// PixelFormat identifies the channel layout of a pixel buffer. It is the
// Go-side analogue of the reference implementation's K15_IA_PIXEL_FORMAT
// enum, extended with a String method and byte-width helper rather than
// leaving callers to compute those by hand.
type PixelFormat uint8

const (
	FormatR8 PixelFormat = iota + 1
	FormatR8A8
	FormatR8G8B8
	FormatR8G8B8A8
)

func (f PixelFormat) String() string {
	switch f {
	case FormatR8:
		return "R8"
	case FormatR8A8:
		return "R8A8"
	case FormatR8G8B8:
		return "R8G8B8"
	case FormatR8G8B8A8:
		return "R8G8B8A8"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the number of channel bytes f uses, or 0 for an
// unrecognized format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatR8A8:
		return 2
	case FormatR8G8B8:
		return 3
	case FormatR8G8B8A8:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) valid() bool {
	return f.BytesPerPixel() > 0
}

// CalculatePixelDataSize returns the number of bytes a w x h buffer in the
// given format occupies. Returns 0 for an unrecognized format.
func CalculatePixelDataSize(format PixelFormat, w, h uint16) int {
	return format.BytesPerPixel() * int(w) * int(h)
}

// greyscale weights, matching the reference implementation's
// R8G8B8->R8 and R8G8B8A8->R8A8 conversion coefficients.
const (
	weightR = 0.21
	weightG = 0.72
	weightB = 0.07
)

// Bake composites every placed image's pixel data into dst, which must be
// pre-sized for the current canvas in the given destination format (see
// CalculatePixelDataSize). Source pixels are converted into the
// destination format per-pixel; see convertPixel.
func (a *Atlas) Bake(format PixelFormat, dst []byte) error {
	if !format.valid() {
		return ErrInvalidArguments
	}
	dstStride := format.BytesPerPixel()
	want := dstStride * int(a.width) * int(a.height)
	if len(dst) < want {
		return ErrInvalidArguments
	}

	for _, n := range a.nodes {
		if err := bakeNode(n, format, dst, int(a.width)); err != nil {
			return err
		}
	}
	return nil
}

func bakeNode(n imageNode, dstFormat PixelFormat, dst []byte, canvasWidth int) error {
	if !n.Format.valid() {
		return ErrInvalidArguments
	}
	srcStride := n.Format.BytesPerPixel()
	dstStride := dstFormat.BytesPerPixel()

	want := srcStride * int(n.Width) * int(n.Height)
	if len(n.PixelData) < want {
		return ErrInvalidArguments
	}

	for row := 0; row < int(n.Height); row++ {
		for col := 0; col < int(n.Width); col++ {
			srcOff := (row*int(n.Width) + col) * srcStride
			px := n.PixelData[srcOff : srcOff+srcStride]

			dstX := int(n.X) + col
			dstY := int(n.Y) + row
			dstOff := (dstY*canvasWidth + dstX) * dstStride

			convertPixel(n.Format, px, dstFormat, dst[dstOff:dstOff+dstStride])
		}
	}
	return nil
}

// convertPixel writes src (in srcFormat) into dst (in dstFormat, already
// sized to dstFormat.BytesPerPixel()). Conversions that gain an alpha
// channel assume fully opaque; conversions that gain color channels from
// a single-channel source replicate it across R, G and B.
func convertPixel(srcFormat PixelFormat, src []byte, dstFormat PixelFormat, dst []byte) {
	r, g, b, alpha := expandPixel(srcFormat, src)

	srcHasAlpha := srcFormat == FormatR8A8 || srcFormat == FormatR8G8B8A8
	dstHasAlpha := dstFormat == FormatR8A8 || dstFormat == FormatR8G8B8A8
	if srcHasAlpha && !dstHasAlpha {
		r, g, b = premultiply(r, alpha), premultiply(g, alpha), premultiply(b, alpha)
	}

	switch dstFormat {
	case FormatR8:
		dst[0] = greyscale(r, g, b)
	case FormatR8A8:
		dst[0] = greyscale(r, g, b)
		dst[1] = alpha
	case FormatR8G8B8:
		dst[0], dst[1], dst[2] = r, g, b
	case FormatR8G8B8A8:
		dst[0], dst[1], dst[2], dst[3] = r, g, b, alpha
	}
}

func expandPixel(format PixelFormat, src []byte) (r, g, b, alpha byte) {
	switch format {
	case FormatR8:
		return src[0], src[0], src[0], 0xFF
	case FormatR8A8:
		return src[0], src[0], src[0], src[1]
	case FormatR8G8B8:
		return src[0], src[1], src[2], 0xFF
	case FormatR8G8B8A8:
		return src[0], src[1], src[2], src[3]
	default:
		return 0, 0, 0, 0
	}
}

func greyscale(r, g, b byte) byte {
	v := weightR*float64(r) + weightG*float64(g) + weightB*float64(b)
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// premultiply returns c scaled by alpha/255, matching the reference
// implementation's premultiplied-alpha conversion used when a source with
// an alpha channel (R8A8 or R8G8B8A8) is converted to a format without one.
func premultiply(c, alpha byte) byte {
	return byte((uint16(c) * uint16(alpha)) / 255)
}
