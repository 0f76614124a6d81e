// Package serialport provides the capability interfaces through which the
// acquisition pipeline talks to instrumentation hardware. The device modules
// only ever see a blocking byte stream, so they can be driven from in-memory
// fixtures in tests without real serial hardware.
package serialport

import (
	"io"
)

// Porter defines the minimal interface needed for a serial device.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// InputResetter is an optional interface for ports whose pending input
// buffer can be discarded. The AHRS handshake purges stale bytes between
// mode configuration and the first framed read.
type InputResetter interface {
	ResetInputBuffer() error
}

// Parity defines serial port parity options.
type Parity int

const (
	NoParity Parity = iota
	OddParity
	EvenParity
)

// StopBits defines serial port stop bit options.
type StopBits int

const (
	OneStopBit StopBits = iota
	TwoStopBits
)

// Mode defines serial port configuration parameters.
type Mode struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits StopBits
}

// DefaultMode returns the factory communication settings of the AHRS400.
func DefaultMode() *Mode {
	return &Mode{
		BaudRate: 38400,
		DataBits: 8,
		Parity:   NoParity,
		StopBits: OneStopBit,
	}
}

// Factory defines an interface for opening serial ports, enabling
// dependency injection of port creation.
type Factory interface {
	// Open opens a serial port at the specified path with the given mode.
	Open(path string, mode *Mode) (Porter, error)
}
