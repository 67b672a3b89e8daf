package dither

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Pixel is an 8-bit RGB triple. There is no alpha channel in the engine.
type Pixel struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

var (
	// Black is (0,0,0).
	Black = Pixel{0, 0, 0}
	// White is (255,255,255).
	White = Pixel{255, 255, 255}
)

// RGBA implements color.Color so a Pixel can be drawn directly.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}.RGBA()
}

// String formats the pixel as "rgb(r,g,b)".
func (p Pixel) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", p.R, p.G, p.B)
}

// Buffer is a width x height grid of pixels stored row-major.
//
// The zero value is an empty 0x0 buffer. Use NewBuffer or FromImage to
// create one with pixels.
type Buffer struct {
	width  int
	height int
	pix    []Pixel
}

// NewBuffer allocates a black buffer. Negative dimensions are treated as 0.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}
}

// FromImage copies an image into a new buffer.
//
// The image is converted to non-premultiplied RGBA first and the alpha
// channel is dropped, so a half transparent red pixel becomes plain red.
// The buffer origin is always (0,0) regardless of img.Bounds().Min.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy())

	for y := 0; y < buf.height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < buf.width; x++ {
			i := x * 4
			buf.pix[y*buf.width+x] = Pixel{R: row[i], G: row[i+1], B: row[i+2]}
		}
	}
	return buf
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// In reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the pixel at (x, y), or the zero Pixel when out of range.
func (b *Buffer) At(x, y int) Pixel {
	if !b.In(x, y) {
		return Pixel{}
	}
	return b.pix[y*b.width+x]
}

// Set writes p at (x, y). Writes outside the buffer are ignored and
// reported by a false return.
func (b *Buffer) Set(x, y int, p Pixel) bool {
	if !b.In(x, y) {
		return false
	}
	b.pix[y*b.width+x] = p
	return true
}

// Fill sets every pixel to p.
func (b *Buffer) Fill(p Pixel) {
	for i := range b.pix {
		b.pix[i] = p
	}
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height, pix: make([]Pixel, len(b.pix))}
	copy(c.pix, b.pix)
	return c
}

// Image returns the buffer as an opaque *image.RGBA with origin (0,0).
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.width; x++ {
			p := b.pix[y*b.width+x]
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = p.R, p.G, p.B, 255
		}
	}
	return img
}
