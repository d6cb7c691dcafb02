// Package lidar is the receive side of a serial range sensor.
//
// The sensor streams packets over a UART at 115200 baud, 8N1. This package
// only owns the line and the sensor configuration: Read fills a buffer with
// raw bytes and AnalyzePacket is the hook where packet decoding will live. It
// does not decode anything yet.
package lidar

import (
	"fmt"

	d2r2log "github.com/d2r2/go-logger"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
)

var lg = d2r2log.NewPackageLogger("lidar", d2r2log.InfoLevel)

// Serial line parameters expected by the sensor.
const (
	Baud     = 115200 * physic.Hertz
	DataBits = 8
)

// Config is the sensor configuration.
type Config struct {
	// NoiseFilter drops isolated points when packets are analyzed.
	NoiseFilter bool
}

// Dev is a range sensor connected over a serial line.
type Dev struct {
	c   conn.Conn
	cfg Config

	faults int
}

// NewUART connects to the sensor on p at 115200 baud, 8 data bits, no parity,
// 1 stop bit and no flow control.
func NewUART(p uart.Port) (*Dev, error) {
	c, err := p.Connect(Baud, uart.One, uart.NoParity, uart.NoFlow, DataBits)
	if err != nil {
		return nil, fmt.Errorf("lidar: %w", err)
	}
	return New(c), nil
}

// New returns a Dev reading from an already configured connection.
func New(c conn.Conn) *Dev {
	return &Dev{c: c}
}

// Read blocks until buf is filled or the transport gives up. Transport errors
// are dropped: on error the content of buf is unspecified. Failed reads are
// counted, see Faults.
func (d *Dev) Read(buf []byte) {
	if err := d.c.Tx(nil, buf); err != nil {
		d.faults++
		lg.Debugf("read %d bytes: %v", len(buf), err)
	}
}

// Faults returns the number of reads that failed since the Dev was created.
func (d *Dev) Faults() int {
	return d.faults
}

// SetNoiseFilter enables or disables noise filtering.
func (d *Dev) SetNoiseFilter(enabled bool) {
	d.cfg.NoiseFilter = enabled
}

// NoiseFilter reports whether noise filtering is enabled.
func (d *Dev) NoiseFilter() bool {
	return d.cfg.NoiseFilter
}

// AnalyzePacket consumes one byte of the stream returned by Read.
//
// Packet decoding is not implemented: every byte is accepted.
func (d *Dev) AnalyzePacket(b byte) error {
	return nil
}

// Halt implements conn.Resource. The line is left open.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("lidar.Dev{%s}", d.c)
}
