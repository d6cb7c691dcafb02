// Package framebuffer provides the 1-bit, page-addressed pixel store used by
// the SSD1306 driver.
//
// Storage mirrors the controller RAM exactly: 128 columns by 8 pages, one byte
// per (column, page) cell, 8 vertical pixels per byte.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

const (
	Width  = 128 // Columns
	Height = 64  // Pixel rows
	Pages  = Height / 8

	// Size is the number of bytes needed to hold a full frame.
	Size = Width * Pages
)

// Bit represents a single pixel, lit (On) or dark (Off).
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA. On is white, Off is black.
func (p Bit) RGBA() (r, g, b, a uint32) {
	if p {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (p Bit) String() string {
	if p {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B, lit from half
	// intensity up.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Addr returns the page and bit mask holding pixel row y.
//
// The page index decreases as y increases and bit 7 is the smallest y of the
// group. This is dictated by the controller's page addressing on this panel,
// callers must not assume any other layout.
func Addr(y int) (page int, mask byte) {
	page = Pages - 1 - y/8
	mask = 1 << (7 - uint(y%8))
	return
}

// Frame is a 128x64 1-bit image stored in the controller's page layout.
type Frame struct {
	cells [Width][Pages]byte
}

// New returns a blank frame.
func New() *Frame {
	return &Frame{}
}

// ColorModel returns BitModel.
func (f *Frame) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the frame bounds, always {0, 0}-{128, 64}.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// Set implements draw.Image. Out of range pixels are ignored.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// In reports whether (x, y) is addressable.
func In(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// BitAt returns the pixel at (x, y). Out of range pixels read as Off.
func (f *Frame) BitAt(x, y int) Bit {
	if !In(x, y) {
		return Off
	}
	page, mask := Addr(y)
	return f.cells[x][page]&mask != 0
}

// SetBit sets the pixel at (x, y) and reports whether it was in range. An out
// of range call leaves the frame untouched.
func (f *Frame) SetBit(x, y int, b Bit) bool {
	if !In(x, y) {
		return false
	}
	page, mask := Addr(y)
	if b {
		f.cells[x][page] |= mask
	} else {
		f.cells[x][page] &^= mask
	}
	return true
}

// Cell returns the raw byte stored for column x in page.
func (f *Frame) Cell(x, page int) byte {
	return f.cells[x][page]
}

// Page appends the 128 column bytes of page to dst, in column order, and
// returns the extended slice. This is the order the controller expects them
// on the wire.
func (f *Frame) Page(page int, dst []byte) []byte {
	for x := 0; x < Width; x++ {
		dst = append(dst, f.cells[x][page])
	}
	return dst
}

// Clear turns every pixel off.
func (f *Frame) Clear() {
	f.cells = [Width][Pages]byte{}
}

// Bytes returns a copy of the frame in wire order: page 0 first, 128 column
// bytes per page.
func (f *Frame) Bytes() []byte {
	out := make([]byte, 0, Size)
	for page := 0; page < Pages; page++ {
		out = f.Page(page, out)
	}
	return out
}

// ErrSize is returned by Load when the pixel stream length is not Size.
var ErrSize = errors.New("framebuffer: invalid pixel stream length")

// Load replaces the frame content with pix, in the format returned by Bytes.
func (f *Frame) Load(pix []byte) error {
	if len(pix) != Size {
		return fmt.Errorf("%w; expected %d bytes, got %d", ErrSize, Size, len(pix))
	}
	for page := 0; page < Pages; page++ {
		for x := 0; x < Width; x++ {
			f.cells[x][page] = pix[page*Width+x]
		}
	}
	return nil
}
