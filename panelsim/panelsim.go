// Package panelsim emulates an SSD1306 panel at the wire level.
//
// It hands out four gpio.PinOut lines (SCLK, SDIN, RST, RS) that can be
// passed to the ssd1306 driver instead of real GPIOs. Every transition is
// decoded the way the controller does: SDIN is sampled on the rising edge of
// SCLK, 8 samples make a byte, RS tells commands (high) from data (low).
// Commands update the emulated registers and data bytes land in the display
// RAM using page addressing.
//
// The panel can be rendered to a terminal with ANSI colors. Useful while the
// real display is not wired yet, and in tests.
package panelsim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"time"

	d2r2log "github.com/d2r2/go-logger"
	"github.com/flavioheleno/ssd1306/framebuffer"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var lg = d2r2log.NewPackageLogger("panelsim", d2r2log.InfoLevel)

// Op is one decoded byte.
type Op struct {
	Command bool
	Byte    byte
}

func (o Op) String() string {
	if o.Command {
		return fmt.Sprintf("C:%02X", o.Byte)
	}
	return fmt.Sprintf("D:%02X", o.Byte)
}

// Opts configures the emulator.
type Opts struct {
	// Record keeps every decoded byte, see Ops. Leave it off for long running
	// previews.
	Record bool
	// W is where Render writes. Defaults to a colorable stdout.
	W io.Writer
	// Palette used to render. Defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Lit is the color of a lit pixel. Defaults to white.
	Lit color.Color
}

// Panel is an emulated SSD1306 controller and panel.
type Panel struct {
	sclk, sdin, rst, rs *Line

	// Decoder.
	shift byte
	bits  int

	// Command parser.
	pending byte
	args    []byte
	want    int

	// Controller state.
	ram       [framebuffer.Pages][framebuffer.Width]byte
	page, col int
	on        bool
	inverted  bool
	allOn     bool
	contrast  byte
	regs      map[byte][]byte

	resets     int
	resetStart time.Time
	resetPulse time.Duration

	record bool
	ops    []Op

	w       io.Writer
	palette ansi256.Palette
	lit     color.NRGBA
	dark    color.NRGBA
	buf     bytes.Buffer
}

// New returns a powered panel with all four lines idle. RST idles high.
func New(opts *Opts) *Panel {
	if opts == nil {
		opts = &Opts{}
	}
	p := &Panel{
		record:   opts.Record,
		w:        opts.W,
		contrast: 0x7F,
		regs:     map[byte][]byte{},
		lit:      color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF},
		dark:     color.NRGBA{0x00, 0x00, 0x00, 0xFF},
	}
	if p.w == nil {
		p.w = colorable.NewColorableStdout()
	}
	pal := opts.Palette
	if pal == nil {
		pal = ansi256.Default
	}
	p.palette = *pal
	if opts.Lit != nil {
		p.lit = color.NRGBAModel.Convert(opts.Lit).(color.NRGBA)
	}
	p.sclk = &Line{panel: p, name: "SIM_SCLK", number: 0}
	p.sdin = &Line{panel: p, name: "SIM_SDIN", number: 1}
	p.rst = &Line{panel: p, name: "SIM_RST", number: 2, level: gpio.High}
	p.rs = &Line{panel: p, name: "SIM_RS", number: 3}
	return p
}

// SCLK returns the clock line.
func (p *Panel) SCLK() gpio.PinOut { return p.sclk }

// SDIN returns the data line.
func (p *Panel) SDIN() gpio.PinOut { return p.sdin }

// RST returns the reset line, active low.
func (p *Panel) RST() gpio.PinOut { return p.rst }

// RS returns the mode select line, high for commands.
func (p *Panel) RS() gpio.PinOut { return p.rs }

func (p *Panel) String() string {
	return "panelsim.Panel{128x64}"
}

// Ops returns the bytes decoded so far. Only populated with Opts.Record.
func (p *Panel) Ops() []Op {
	return p.ops
}

// ResetOps forgets the recorded bytes.
func (p *Panel) ResetOps() {
	p.ops = nil
}

// Resets returns how many reset pulses were seen.
func (p *Panel) Resets() int {
	return p.resets
}

// ResetPulse returns how long RST was last held low.
func (p *Panel) ResetPulse() time.Duration {
	return p.resetPulse
}

// On reports whether the display is switched on.
func (p *Panel) On() bool {
	return p.on
}

// Inverted reports whether inverse display is selected.
func (p *Panel) Inverted() bool {
	return p.inverted
}

// Contrast returns the current contrast level.
func (p *Panel) Contrast() byte {
	return p.contrast
}

// Register returns the arguments last sent with op, for commands that take
// arguments or are tracked as settings.
func (p *Panel) Register(op byte) ([]byte, bool) {
	v, ok := p.regs[op]
	return v, ok
}

// Pixel returns the RAM bit backing pixel (x, y), regardless of the display
// being on or inverted.
func (p *Panel) Pixel(x, y int) bool {
	if !framebuffer.In(x, y) {
		return false
	}
	page, mask := framebuffer.Addr(y)
	return p.ram[page][x]&mask != 0
}

// Lit returns whether pixel (x, y) is visibly lit.
func (p *Panel) Lit(x, y int) bool {
	if !p.on {
		return false
	}
	if p.allOn {
		return true
	}
	return p.Pixel(x, y) != p.inverted
}

// Render draws the visible panel content.
func (p *Panel) Render() error {
	p.buf.Reset()
	_, _ = p.buf.WriteString("\033[0m\033[H")
	for y := 0; y < framebuffer.Height; y++ {
		for x := 0; x < framebuffer.Width; x++ {
			c := p.dark
			if p.Lit(x, y) {
				c = p.lit
			}
			_, _ = io.WriteString(&p.buf, p.palette.Block(c))
		}
		_, _ = p.buf.WriteString("\033[0m\n")
	}
	_, err := p.buf.WriteTo(p.w)
	return err
}

func (p *Panel) edge(l *Line, prev, next gpio.Level) {
	switch l {
	case p.rst:
		if prev && !next {
			p.resetStart = time.Now()
		} else if !prev && next {
			p.resetPulse = time.Since(p.resetStart)
			p.reset()
		}
	case p.sclk:
		if p.rst.level && !prev && next {
			p.clock()
		}
	}
}

func (p *Panel) clock() {
	p.shift <<= 1
	if p.sdin.level {
		p.shift |= 1
	}
	p.bits++
	if p.bits == 8 {
		p.receive(p.shift, bool(p.rs.level))
		p.shift = 0
		p.bits = 0
	}
}

func (p *Panel) reset() {
	p.resets++
	p.shift = 0
	p.bits = 0
	p.want = 0
	p.args = nil
	p.page = 0
	p.col = 0
	p.on = false
	p.inverted = false
	p.allOn = false
	p.contrast = 0x7F
	p.regs = map[byte][]byte{}
}

func (p *Panel) receive(b byte, command bool) {
	if p.record {
		p.ops = append(p.ops, Op{Command: command, Byte: b})
	}
	if !command {
		if p.want != 0 {
			lg.Warnf("data byte 0x%02X while command 0x%02X waits for arguments", b, p.pending)
			return
		}
		p.ram[p.page][p.col] = b
		p.col = (p.col + 1) % framebuffer.Width
		return
	}
	if p.want != 0 {
		p.args = append(p.args, b)
		if len(p.args) == p.want {
			p.want = 0
			p.exec(p.pending, p.args)
		}
		return
	}
	if n := argCount(b); n != 0 {
		p.pending = b
		p.args = make([]byte, 0, n)
		p.want = n
		return
	}
	p.exec(b, nil)
}

func argCount(op byte) int {
	switch op {
	case 0x20, 0x81, 0x8D, 0xA8, 0xAD, 0xD3, 0xD5, 0xD9, 0xDA, 0xDB:
		return 1
	case 0x21, 0x22:
		return 2
	}
	return 0
}

func (p *Panel) exec(op byte, args []byte) {
	switch {
	case op <= 0x0F:
		p.col = (p.col&0xF0 | int(op)) % framebuffer.Width
	case op <= 0x1F:
		p.col = (int(op&0x0F)<<4 | p.col&0x0F) % framebuffer.Width
	case op >= 0x40 && op <= 0x7F:
		p.regs[0x40] = []byte{op & 0x3F}
	case op >= 0xB0 && op <= 0xB7:
		p.page = int(op & 0x07)
	case op == 0xAE, op == 0xAF:
		p.on = op == 0xAF
	case op == 0xA6, op == 0xA7:
		p.inverted = op == 0xA7
	case op == 0xA4, op == 0xA5:
		p.allOn = op == 0xA5
	case op == 0x81:
		p.contrast = args[0]
	case op == 0xA0, op == 0xA1:
		p.regs[0xA0] = []byte{op & 0x01}
	case op == 0xC0, op == 0xC8:
		p.regs[0xC0] = []byte{op & 0x08}
	case op == 0x2E:
		p.regs[op] = nil
	case argCount(op) != 0:
		p.regs[op] = append([]byte(nil), args...)
	default:
		lg.Warnf("unknown command 0x%02X", op)
	}
}

// Line is one emulated input of the panel. It implements gpio.PinOut.
type Line struct {
	panel  *Panel
	name   string
	number int
	level  gpio.Level
}

// Halt implements conn.Resource.
func (l *Line) Halt() error {
	return nil
}

// Name returns the name of the line.
func (l *Line) Name() string {
	return l.name
}

// Number returns the index of the line on the panel connector.
func (l *Line) Number() int {
	return l.number
}

// Deprecated: returns "Out"
func (l *Line) Function() string {
	return "Out"
}

// Out drives the line. Transitions are decoded synchronously.
func (l *Line) Out(level gpio.Level) error {
	prev := l.level
	l.level = level
	if prev != level {
		l.panel.edge(l, prev, level)
	}
	return nil
}

// Read returns the level last driven.
func (l *Line) Read() gpio.Level {
	return l.level
}

// PWM is not supported.
func (l *Line) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("panelsim: %s: PWM not supported", l.name)
}

func (l *Line) String() string {
	return l.name
}

var _ gpio.PinOut = &Line{}
