// Package framebuffer provides the 1-bit, page-addressed pixel store mirrored
// by the SSD1306 display controller.
//
// The controller RAM is organized as 8 pages of 128 column bytes. Each byte
// holds 8 vertically stacked pixels. On this panel wiring the pages run
// bottom-up and the most significant bit is the top pixel of its group:
//
//	y       page   mask
//	0..7    7      0x80 (y=0) .. 0x01 (y=7)
//	8..15   6      0x80 (y=8) .. 0x01 (y=15)
//	...
//	56..63  0      0x80 (y=56) .. 0x01 (y=63)
//
// This package provides:
//
// - Bit: a color type representing a lit or dark pixel
// - BitModel: a color model converting standard Go colors to Bit
// - Frame: a draw.Image stored in the controller's layout
//
// Example usage:
//
//	f := framebuffer.New()
//	f.SetBit(10, 20, framebuffer.On)
//	page, mask := framebuffer.Addr(20)
//	lit := f.Cell(10, page)&mask != 0 // true
package framebuffer
