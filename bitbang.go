package ssd1306

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Link is the 3-line synchronous serial link to the controller: clock (SCLK),
// data (SDIN) and mode select (RS).
//
// Bytes are shifted out MSB first and sampled by the controller on the
// rising edge of SCLK. There is no buffering, acknowledgement or delay: a
// call returns once the lines have been toggled.
//
// Line errors are not reported to the caller. They are counted and can be
// inspected with Faults.
type Link struct {
	sclk gpio.PinOut
	sdin gpio.PinOut
	rs   gpio.PinOut

	faults int
}

// NewLink returns a Link driving the given lines. The lines are owned by the
// Link from now on.
func NewLink(sclk, sdin, rs gpio.PinOut) *Link {
	return &Link{sclk: sclk, sdin: sdin, rs: rs}
}

// Send shifts v out. RS is driven high for a command byte and low for a data
// byte.
func (l *Link) Send(v byte, command bool) {
	l.out(l.rs, gpio.Level(command))
	for i := 0; i < 8; i++ {
		l.out(l.sclk, gpio.Low)
		l.out(l.sdin, v&0x80 != 0)
		l.out(l.sclk, gpio.High)
		v <<= 1
	}
}

// SendCommands sends each byte of cmds as a command byte.
func (l *Link) SendCommands(cmds ...byte) {
	for _, c := range cmds {
		l.Send(c, true)
	}
}

// SendData sends each byte of data as a data byte.
func (l *Link) SendData(data []byte) {
	for _, d := range data {
		l.Send(d, false)
	}
}

// Faults returns the number of line writes that failed since the Link was
// created.
func (l *Link) Faults() int {
	return l.faults
}

func (l *Link) String() string {
	return fmt.Sprintf("Link{SCLK: %s, SDIN: %s, RS: %s}", l.sclk, l.sdin, l.rs)
}

func (l *Link) out(p gpio.PinOut, level gpio.Level) {
	if err := p.Out(level); err != nil {
		l.faults++
	}
}
