// Package ssd1306 controls a 128x64 monochrome SSD1306 OLED display over a
// bit-banged serial link made of four GPIO lines.
//
// See the examples for how to use this package.
package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/ssd1306/framebuffer"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

const (
	_CHARGEPUMP          = 0x8D
	_COMSCANINC          = 0xC0
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_INVERTDISPLAY       = 0xA7
	_MEMORYMODE          = 0x20
	_NORMALDISPLAY       = 0xA6
	_PAGESTARTADDRESS    = 0xB0
	_SETCOMPINS          = 0xDA
	_SETCONTRAST         = 0x81
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETDISPLAYOFFSET    = 0xD3
	_SETHIGHCOLUMN       = 0x10
	_SETLOWCOLUMN        = 0x00
	_SETMULTIPLEX        = 0xA8
	_SETPRECHARGE        = 0xD9
	_SETSEGMENTREMAP     = 0xA1
	_SETSTARTLINE        = 0x40
	_SETVCOMDETECT       = 0xDB
)

const (
	chargePumpOn   = 0x14
	chargePumpOff  = 0x10
	pageAddressing = 0x02
)

// MinResetPulse is the shortest reset pulse accepted by the controller.
const MinResetPulse = 100 * time.Millisecond

// ErrOutOfBounds is returned by SetPixel for coordinates outside the 128x64
// area.
var ErrOutOfBounds = errors.New("ssd1306: pixel out of bounds")

// Pins are the four lines wired to the controller. They are owned by the Dev
// once passed to New and must not be driven by anything else.
type Pins struct {
	SCLK gpio.PinOut // Serial clock (D0)
	SDIN gpio.PinOut // Serial data (D1)
	RST  gpio.PinOut // Reset, active low
	RS   gpio.PinOut // Mode select, high for commands and low for data
}

// Opts is the configuration for the display.
type Opts struct {
	// ResetPulse is how long RST is held low at start up. Must be at least
	// MinResetPulse.
	ResetPulse time.Duration
	// Contrast is the initial contrast level.
	Contrast byte
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	ResetPulse: MinResetPulse,
	Contrast:   0xEF,
}

// Dev is the device handle for the display.
type Dev struct {
	// Communication
	link *Link
	rst  gpio.PinOut

	// Off-screen copy of the controller RAM. Drawing only touches this buffer,
	// Refresh pushes it.
	frame *framebuffer.Frame
}

// New resets the controller, sends the initialization sequence and pushes a
// blank frame.
//
// opts can be nil to use DefaultOpts.
func New(pins Pins, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	for _, p := range []struct {
		name string
		pin  gpio.PinOut
	}{{"SCLK", pins.SCLK}, {"SDIN", pins.SDIN}, {"RST", pins.RST}, {"RS", pins.RS}} {
		if p.pin == nil || p.pin == gpio.INVALID {
			return nil, fmt.Errorf("ssd1306: %s line is required", p.name)
		}
	}
	if opts.ResetPulse < MinResetPulse {
		return nil, fmt.Errorf("ssd1306: reset pulse must be at least %s, got %s", MinResetPulse, opts.ResetPulse)
	}

	d := &Dev{
		link:  NewLink(pins.SCLK, pins.SDIN, pins.RS),
		rst:   pins.RST,
		frame: framebuffer.New(),
	}
	d.init(opts)
	return d, nil
}

// init pulses reset and configures the controller. Nothing else may be sent in
// between: every argument byte must directly follow its opcode.
func (d *Dev) init(opts *Opts) {
	d.link.out(d.rst, gpio.Low)
	time.Sleep(opts.ResetPulse)
	d.link.out(d.rst, gpio.High)

	d.link.SendCommands(initCommands(opts.Contrast)...)
	d.Clear()
}

// initCommands returns the power-up sequence for a 128x64 panel in page
// addressing mode.
func initCommands(contrast byte) []byte {
	return []byte{
		_DISPLAYOFF,               // Display off
		_SETDISPLAYCLOCKDIV, 0x50, // [3:0] divide ratio, [7:4] oscillator frequency
		_SETMULTIPLEX, 0x3F, // 1/64 duty
		_SETDISPLAYOFFSET, 0x00, // No vertical offset
		_SETSTARTLINE,             // Start line 0
		_CHARGEPUMP, chargePumpOn, // Enable charge pump regulator
		_MEMORYMODE, pageAddressing, // Page addressing
		_SETSEGMENTREMAP,      // Column 127 mapped to SEG0
		_COMSCANINC,           // Scan COM0 to COM[N-1]
		_SETCOMPINS, 0x12, // Alternative COM pin configuration
		_SETCONTRAST, contrast, //
		_SETPRECHARGE, 0xF1, // Phase 1: 1 DCLK, phase 2: 15 DCLK
		_SETVCOMDETECT, 0x30, // ~0.83 x Vcc
		_DISPLAYALLON_RESUME, // Output follows RAM content
		_NORMALDISPLAY,       // 1 is lit
		_DISPLAYON,           // Display on
	}
}

// Refresh pushes the whole framebuffer to the controller, page by page.
func (d *Dev) Refresh() {
	var page []byte
	for i := 0; i < framebuffer.Pages; i++ {
		d.link.SendCommands(
			_PAGESTARTADDRESS|byte(i),
			_SETLOWCOLUMN,
			_SETHIGHCOLUMN,
		)
		page = d.frame.Page(i, page[:0])
		d.link.SendData(page)
	}
}

// Clear turns every pixel off and refreshes the display.
func (d *Dev) Clear() {
	d.frame.Clear()
	d.Refresh()
}

// SetPixel turns the pixel at (x, y) on or off in the framebuffer. It does not
// touch the display, call Refresh for that.
//
// It returns ErrOutOfBounds and changes nothing if (x, y) is outside the
// 128x64 area.
func (d *Dev) SetPixel(x, y int, on bool) error {
	if !d.frame.SetBit(x, y, framebuffer.Bit(on)) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return nil
}

// Pixel returns the framebuffer value of the pixel at (x, y). Out of range
// pixels are off.
func (d *Dev) Pixel(x, y int) bool {
	return bool(d.frame.BitAt(x, y))
}

// DisplayOn enables the charge pump and switches the display on.
func (d *Dev) DisplayOn() {
	d.link.SendCommands(_CHARGEPUMP, chargePumpOn, _DISPLAYON)
}

// DisplayOff disables the charge pump and switches the display off. RAM
// content is kept.
func (d *Dev) DisplayOff() {
	d.link.SendCommands(_CHARGEPUMP, chargePumpOff, _DISPLAYOFF)
}

// SetContrast changes the display contrast.
func (d *Dev) SetContrast(level byte) {
	d.link.SendCommands(_SETCONTRAST, level)
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) {
	if blackOnWhite {
		d.link.SendCommands(_INVERTDISPLAY)
		return
	}
	d.link.SendCommands(_NORMALDISPLAY)
}

// Halt turns off the display. Use DisplayOn to switch it back on.
func (d *Dev) Halt() error {
	d.DisplayOff()
	return nil
}

// Faults returns the number of line writes that failed since New. Failed
// writes are otherwise ignored.
func (d *Dev) Faults() int {
	return d.link.Faults()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", framebuffer.Width, framebuffer.Height)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return framebuffer.BitModel
}

// Bounds implements display.Drawer. Min is always {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer. src is copied into the framebuffer, then the
// display is refreshed.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if fb, ok := src.(*framebuffer.Frame); ok && r == d.Bounds() && sp == (image.Point{}) {
		// Same layout, full frame: fast path!
		*d.frame = *fb
	} else {
		draw.Src.Draw(d.frame, r, src, sp)
	}
	d.Refresh()
	return nil
}

// Write replaces the framebuffer with pixels and refreshes the display.
//
// pixels is in wire order: 8 pages of 128 column bytes, page 0 first. Within
// a byte, bit 7 is the top pixel of the band. Page 0 is the bottom band of the
// panel.
func (d *Dev) Write(pixels []byte) (int, error) {
	if err := d.frame.Load(pixels); err != nil {
		return 0, errors.New("ssd1306: invalid buffer size")
	}
	d.Refresh()
	return len(pixels), nil
}

var _ display.Drawer = &Dev{}
