// Package ssd1306 controls a 128x64 SSD1306 OLED display over a bit-banged
// serial link.
//
// The controller is driven through four plain GPIO outputs, no SPI or I²C
// peripheral is needed. Drawing happens in an off-screen framebuffer that
// mirrors the controller RAM, Refresh pushes the whole frame.
//
// # Display Characteristics
//
// - 128×64 pixels, 1 bit per pixel
// - RAM organized as 8 pages of 128 column bytes, page addressing mode
// - Two built-in fonts: 6×12 (glyph.Narrow) and 8×16 (glyph.Wide)
// - Adjustable contrast (0-255)
// - Display inversion
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	D0/SCLK     → GPIO (clock)
//	D1/SDIN     → GPIO (data)
//	RES/RST     → GPIO (reset, active low)
//	DC/RS       → GPIO (mode select, high for commands)
//	CS          → GND
//
// Every byte is sent MSB first. For each bit, SCLK is pulled low, SDIN is set
// and SCLK is pulled high: the controller samples on the rising edge. RS is
// set before the first bit.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"github.com/flavioheleno/ssd1306"
//		"github.com/flavioheleno/ssd1306/glyph"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		dev, _ := ssd1306.New(ssd1306.Pins{
//			SCLK: gpioreg.ByName("GPIO11"),
//			SDIN: gpioreg.ByName("GPIO10"),
//			RST:  gpioreg.ByName("GPIO24"),
//			RS:   gpioreg.ByName("GPIO25"),
//		}, nil)
//
//		dev.DrawText(1, 1, "Hello, World!")
//		dev.DrawNumber(1, 15, 1000, 4, glyph.Wide)
//		dev.Refresh()
//	}
//
// # Initialization
//
// New pulls RST low for Opts.ResetPulse (at least 100ms), releases it and
// sends a fixed command sequence: display off, clock divide, 1/64 multiplex,
// zero offset and start line, charge pump on, page addressing, segment remap,
// COM scan direction, COM pins, contrast, pre-charge, VCOMH, resume from RAM,
// normal polarity, display on. A blank frame is pushed last.
//
// # Drawing
//
// SetPixel, DrawGlyph, DrawNumber and DrawText only modify the framebuffer.
// Call Refresh to transfer it. Clear blanks both the framebuffer and the
// display.
//
// DrawText wraps to column 0, 16 rows down, once a character would start past
// column 122, and clears the screen when a line would start past row 58.
//
// DrawNumber always draws the requested number of digits, including leading
// zeros.
//
// Dev also implements display.Drawer so any image.Image can be drawn; colors
// are thresholded to on/off.
//
// # Line Errors
//
// Writes to the GPIO lines are fire-and-forget: a failing line does not stop
// or fail any operation. Failures are counted, see Dev.Faults.
//
// # Emulation
//
// Package panelsim provides four emulated lines decoding the serial stream
// into an emulated panel, and can render it to a terminal. Pass its lines to
// New to run without hardware.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
