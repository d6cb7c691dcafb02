// Package glyph holds the two bitmap fonts used to draw text on the SSD1306.
//
// Each glyph is stored column-major: two bytes per column, most significant
// bit first, the first byte covering the top 8 rows of the cell. A Narrow
// glyph is 6 columns by 12 rows (12 bytes), a Wide glyph is 8 columns by 16
// rows (16 bytes). Only printable ASCII (' ' to '~') is available.
package glyph

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Size is a font height in pixels. It is also the number of bytes per glyph.
type Size int

const (
	Narrow Size = 12
	Wide   Size = 16
)

// Width returns the glyph width in columns.
func (s Size) Width() int {
	return int(s) / 2
}

const (
	first = ' '
	last  = '~'
	count = last - first + 1
)

var (
	// ErrSize is returned for a font height other than Narrow or Wide.
	ErrSize = errors.New("glyph: unsupported font size")
	// ErrRange is returned for characters outside printable ASCII.
	ErrRange = errors.New("glyph: character not in font")
)

// source is a fixed face and the number of its rows cropped above the cell.
type source struct {
	face font.Face
	top  int
}

// Both faces draw one row taller than the cell, the top row is always blank.
var sources = map[Size]source{
	Narrow: {basicfont.Face7x13, 1},
	Wide:   {inconsolata.Regular8x16, 1},
}

// The tables are fixed once built.
var (
	narrow = rasterize(Narrow)
	wide   = rasterize(Wide)
)

// Lookup returns the bitmap of c in the font of the given size. The returned
// slice must not be modified.
func Lookup(s Size, c byte) ([]byte, error) {
	var table [][]byte
	switch s {
	case Narrow:
		table = narrow
	case Wide:
		table = wide
	default:
		return nil, fmt.Errorf("%w: %d", ErrSize, s)
	}
	if c < first || c > last {
		return nil, fmt.Errorf("%w: 0x%02X", ErrRange, c)
	}
	return table[c-first], nil
}

// origin returns the dot placing the glyphs of src in the cell.
func (src source) origin() fixed.Point26_6 {
	return fixed.P(0, src.face.Metrics().Ascent.Ceil()-src.top)
}

// rasterize renders the printable ASCII range of the face for s into
// column-major cells of s.Width() by s rows.
func rasterize(s Size) [][]byte {
	w, h := s.Width(), int(s)
	cell := image.Rect(0, 0, w, h)
	face := sources[s].face
	dot := sources[s].origin()

	table := make([][]byte, count)
	for i := range table {
		g := make([]byte, h)
		table[i] = g
		dr, mask, mp, _, ok := face.Glyph(dot, rune(first+i))
		if !ok {
			continue
		}
		area := dr.Intersect(cell)
		for x := area.Min.X; x < area.Max.X; x++ {
			for y := area.Min.Y; y < area.Max.Y; y++ {
				_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					g[2*x+y/8] |= 0x80 >> uint(y%8)
				}
			}
		}
	}
	return table
}
