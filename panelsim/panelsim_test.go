package panelsim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

func newPanel() (*Panel, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&Opts{Record: true, W: &buf}), &buf
}

// send bit-bangs b the way the driver does.
func send(p *Panel, b byte, command bool) {
	p.RS().Out(gpio.Level(command))
	for i := 0; i < 8; i++ {
		p.SCLK().Out(gpio.Low)
		p.SDIN().Out(b&0x80 != 0)
		p.SCLK().Out(gpio.High)
		b <<= 1
	}
}

func TestDecodeBytes(t *testing.T) {
	p, _ := newPanel()
	send(p, 0xAE, true)
	send(p, 0x5A, false)
	send(p, 0x01, false)

	want := []Op{{Command: true, Byte: 0xAE}, {Byte: 0x5A}, {Byte: 0x01}}
	if diff := cmp.Diff(p.Ops(), want); diff != "" {
		t.Errorf("Ops() difference (-got +want):\n%s", diff)
	}
}

func TestSamplesOnRisingEdgeOnly(t *testing.T) {
	p, _ := newPanel()
	p.RS().Out(gpio.High)
	for i := 0; i < 8; i++ {
		p.SCLK().Out(gpio.Low)
		p.SDIN().Out(gpio.High)
		// Redundant writes are not edges.
		p.SCLK().Out(gpio.Low)
		p.SDIN().Out(gpio.Low)
		p.SCLK().Out(gpio.High)
		p.SCLK().Out(gpio.High)
	}
	if diff := cmp.Diff(p.Ops(), []Op{{Command: true, Byte: 0x00}}); diff != "" {
		t.Errorf("Ops() difference (-got +want):\n%s", diff)
	}
}

func TestPageAddressing(t *testing.T) {
	p, _ := newPanel()
	for _, c := range []byte{0xB7, 0x02, 0x10} {
		send(p, c, true)
	}
	send(p, 0x80, false) // (2, 0)
	send(p, 0x01, false) // (3, 7)

	for _, c := range []byte{0xB0, 0x0F, 0x17} {
		send(p, c, true)
	}
	send(p, 0x01, false) // (127, 63)

	for _, pt := range [][2]int{{2, 0}, {3, 7}, {127, 63}} {
		if !p.Pixel(pt[0], pt[1]) {
			t.Errorf("Pixel(%d, %d) = false, want true", pt[0], pt[1])
		}
	}
	if p.Pixel(2, 1) || p.Pixel(0, 0) {
		t.Error("unexpected lit pixel")
	}
}

func TestColumnWraps(t *testing.T) {
	p, _ := newPanel()
	for _, c := range []byte{0xB7, 0x0F, 0x17} {
		send(p, c, true)
	}
	send(p, 0x80, false) // (127, 0)
	send(p, 0x80, false) // wraps to (0, 0)
	if !p.Pixel(127, 0) || !p.Pixel(0, 0) {
		t.Error("column pointer did not wrap within the page")
	}
}

func TestCommandArguments(t *testing.T) {
	p, _ := newPanel()
	for _, c := range []byte{0x81, 0x33, 0xD5, 0x50, 0xAF, 0xA7, 0x21, 0x00, 0x7F} {
		send(p, c, true)
	}
	if p.Contrast() != 0x33 {
		t.Errorf("Contrast() = 0x%02X, want 0x33", p.Contrast())
	}
	if v, ok := p.Register(0xD5); !ok || !bytes.Equal(v, []byte{0x50}) {
		t.Errorf("Register(0xD5) = %#v, %t", v, ok)
	}
	if v, _ := p.Register(0x21); !bytes.Equal(v, []byte{0x00, 0x7F}) {
		t.Errorf("Register(0x21) = %#v", v)
	}
	if !p.On() || !p.Inverted() {
		t.Errorf("On() = %t, Inverted() = %t, want both true", p.On(), p.Inverted())
	}
}

func TestArgumentLooksLikeOpcode(t *testing.T) {
	p, _ := newPanel()
	// 0xAF is the contrast value here, not "display on".
	send(p, 0x81, true)
	send(p, 0xAF, true)
	if p.On() {
		t.Error("argument byte was executed as a command")
	}
	if p.Contrast() != 0xAF {
		t.Errorf("Contrast() = 0x%02X, want 0xAF", p.Contrast())
	}
}

func TestReset(t *testing.T) {
	p, _ := newPanel()
	send(p, 0xAF, true)
	// Half a byte, then reset.
	p.RS().Out(gpio.High)
	for i := 0; i < 4; i++ {
		p.SCLK().Out(gpio.Low)
		p.SCLK().Out(gpio.High)
	}
	p.RST().Out(gpio.Low)
	// Clocks are ignored while in reset.
	p.SCLK().Out(gpio.Low)
	p.SCLK().Out(gpio.High)
	p.RST().Out(gpio.High)

	if p.Resets() != 1 {
		t.Errorf("Resets() = %d, want 1", p.Resets())
	}
	if p.On() {
		t.Error("reset should switch the display off")
	}
	p.ResetOps()
	send(p, 0xA7, true)
	if diff := cmp.Diff(p.Ops(), []Op{{Command: true, Byte: 0xA7}}); diff != "" {
		t.Errorf("partial byte survived reset (-got +want):\n%s", diff)
	}
}

func TestLit(t *testing.T) {
	p, _ := newPanel()
	send(p, 0xB7, true)
	send(p, 0x80, false) // (0, 0) in RAM
	if p.Lit(0, 0) {
		t.Error("display off must not light pixels")
	}
	send(p, 0xAF, true)
	if !p.Lit(0, 0) || p.Lit(1, 0) {
		t.Error("normal display should follow RAM")
	}
	send(p, 0xA7, true)
	if p.Lit(0, 0) || !p.Lit(1, 0) {
		t.Error("inverted display should invert RAM")
	}
	send(p, 0xA5, true)
	if !p.Lit(0, 0) || !p.Lit(1, 0) {
		t.Error("entire display on should light everything")
	}
}

func TestRecordDisabled(t *testing.T) {
	p := New(&Opts{W: &bytes.Buffer{}})
	send(p, 0xAF, true)
	if len(p.Ops()) != 0 {
		t.Errorf("Ops() = %v, want none", p.Ops())
	}
	if !p.On() {
		t.Error("commands must be executed without recording")
	}
}

func TestRender(t *testing.T) {
	p, buf := newPanel()
	send(p, 0xAF, true)
	send(p, 0xB7, true)
	send(p, 0x80, false)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\033[0m\033[H") {
		t.Errorf("Render() output does not start by homing the cursor: %q", out[:10])
	}
	if lines := strings.Count(out, "\n"); lines != 64 {
		t.Errorf("Render() wrote %d lines, want 64", lines)
	}
	first := strings.SplitN(out, "\n", 2)[0]
	lit := p.palette.Block(p.lit)
	dark := p.palette.Block(p.dark)
	if !strings.HasPrefix(first, "\033[0m\033[H"+lit+dark) {
		t.Errorf("first row does not start with a lit then a dark pixel: %q", first)
	}
}

func TestLineInterface(t *testing.T) {
	p, _ := newPanel()
	l := p.SCLK()
	if l.Name() != "SIM_SCLK" || l.String() != "SIM_SCLK" {
		t.Errorf("Name() = %q, String() = %q", l.Name(), l.String())
	}
	if l.Number() != 0 || p.RS().Number() != 3 {
		t.Errorf("Number() = %d, %d", l.Number(), p.RS().Number())
	}
	if err := l.PWM(gpio.DutyHalf, 0); err == nil {
		t.Error("PWM() should fail")
	}
	if err := l.Halt(); err != nil {
		t.Errorf("Halt() = %v", err)
	}
	if p.String() != "panelsim.Panel{128x64}" {
		t.Errorf("String() = %q", p.String())
	}
}
