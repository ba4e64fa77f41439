package document

import "fmt"

// Image is a rectangular pixel buffer, row-major, top-down, in the
// byte encoding dictated by Mode.
type Image struct {
	Width, Height int
	Mode          ColorMode
	Pix           []byte
}

// NewImage allocates a zero-filled Image of the given size and mode.
// Width and Height must be positive.
func NewImage(width, height int, mode ColorMode) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("document: invalid image dimensions %dx%d", width, height)
	}
	bpp := mode.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("document: invalid color mode %v", mode)
	}
	return &Image{
		Width:  width,
		Height: height,
		Mode:   mode,
		Pix:    make([]byte, width*height*bpp),
	}, nil
}

// NewImageFromPixels wraps an existing, already-sized pixel buffer.
// len(pix) must equal width*height*mode.BytesPerPixel().
func NewImageFromPixels(width, height int, mode ColorMode, pix []byte) (*Image, error) {
	bpp := mode.BytesPerPixel()
	want := width * height * bpp
	if width <= 0 || height <= 0 || bpp == 0 || len(pix) != want {
		return nil, fmt.Errorf("document: pixel buffer length %d does not match %dx%d at %d bytes/px", len(pix), width, height, bpp)
	}
	return &Image{Width: width, Height: height, Mode: mode, Pix: pix}, nil
}

// Stride returns the number of bytes per row.
func (img *Image) Stride() int {
	return img.Width * img.Mode.BytesPerPixel()
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Mode: img.Mode, Pix: pix}
}

// RowBytes returns the raw bytes for row y (0-indexed from the top).
func (img *Image) RowBytes(y int) []byte {
	stride := img.Stride()
	return img.Pix[y*stride : (y+1)*stride]
}

// PixelAt returns the RGBA32 pixel at (x, y). Only valid for
// ColorModeRGBA images; callers resolve Indexed/Grayscale via the
// sprite's active palette.
func (img *Image) PixelAt(x, y int) Rgba32 {
	off := (y*img.Width+x)*4
	p := img.Pix[off : off+4]
	return Rgba32{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// SetPixelAt sets the RGBA32 pixel at (x, y). Only valid for
// ColorModeRGBA images.
func (img *Image) SetPixelAt(x, y int, c Rgba32) {
	off := (y*img.Width+x)*4
	p := img.Pix[off : off+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// TileCellAt returns the raw 32-bit tile cell at (x, y). Only valid
// for ColorModeTilemap images.
func (img *Image) TileCellAt(x, y int) uint32 {
	off := (y*img.Width + x) * 4
	p := img.Pix[off : off+4]
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

// SetTileCellAt sets the raw 32-bit tile cell at (x, y). Only valid
// for ColorModeTilemap images.
func (img *Image) SetTileCellAt(x, y int, cell uint32) {
	off := (y*img.Width + x) * 4
	p := img.Pix[off : off+4]
	p[0] = byte(cell)
	p[1] = byte(cell >> 8)
	p[2] = byte(cell >> 16)
	p[3] = byte(cell >> 24)
}
