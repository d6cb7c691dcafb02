package ssd1306

import (
	"math"
	"unicode/utf8"

	"github.com/flavioheleno/ssd1306/glyph"
)

// Text layout limits. A glyph started past lineEnd would not fit on the line,
// a line started past lastLine would not fit on the screen.
const (
	lineEnd     = 122
	lastLine    = 58
	textAdvance = 8
	lineHeight  = 16
)

// DrawGlyph draws character c with its top-left corner at (x, y) using the
// font of the given size. With normal set, glyph bits are drawn as lit
// pixels on a dark cell, otherwise the cell is inverted.
//
// Glyphs are not clipped: pixels falling outside the display are dropped. An
// error is returned only for an unsupported size or character.
func (d *Dev) DrawGlyph(x, y int, c byte, size glyph.Size, normal bool) error {
	g, err := glyph.Lookup(size, c)
	if err != nil {
		return err
	}
	y0 := y
	for _, b := range g {
		for i := 0; i < 8; i++ {
			// Off-screen pixels are expected at the display edges.
			_ = d.SetPixel(x, y, (b&0x80 != 0) == normal)
			b <<= 1
			y++
			if y-y0 == int(size) {
				y = y0
				x++
				break
			}
		}
	}
	return nil
}

// DrawNumber draws v as a decimal number of exactly digits digits, most
// significant first, starting at (x, y). Higher digits of v that do not fit are
// not drawn. Each digit takes half the font size in columns.
//
// Leading zeros are drawn: DrawNumber(x, y, 7, 4, 16) shows "0007".
func (d *Dev) DrawNumber(x, y int, v uint32, digits int, size glyph.Size) error {
	if _, err := glyph.Lookup(size, '0'); err != nil {
		return err
	}
	for t := 0; t < digits; t++ {
		div := uint64(1)
		for i := 0; i < digits-t-1 && div <= math.MaxUint32; i++ {
			div *= 10
		}
		digit := byte(uint64(v) / div % 10)
		if err := d.DrawGlyph(x+t*size.Width(), y, '0'+digit, size, true); err != nil {
			return err
		}
	}
	return nil
}

// DrawText draws s with the narrow font starting at (x, y), 8 columns per
// character.
//
// A character that would start past column 122 wraps to column 0, 16 rows
// down. A line that would start past row 58 clears the whole display
// (framebuffer and panel) and restarts at (0, 0). Drawing stops at the first
// NUL. s is read as UTF-8: characters without a glyph, including any rune
// past ASCII, take one cell and leave it untouched.
func (d *Dev) DrawText(x, y int, s string) {
	for _, r := range s {
		if r == 0 {
			return
		}
		if x > lineEnd {
			x = 0
			y += lineHeight
		}
		if y > lastLine {
			x = 0
			y = 0
			d.Clear()
		}
		if r < utf8.RuneSelf {
			_ = d.DrawGlyph(x, y, byte(r), glyph.Narrow, true)
		}
		x += textAdvance
	}
}
