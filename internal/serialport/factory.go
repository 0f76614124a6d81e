package serialport

import (
	"go.bug.st/serial"
)

// RealFactory opens real serial ports via the OS serial subsystem.
type RealFactory struct{}

// Open opens a serial port at the given path with the given mode.
func (RealFactory) Open(path string, mode *Mode) (Porter, error) {
	return Open(path, mode)
}

// Open opens a real serial port at the given path.
func Open(path string, mode *Mode) (Porter, error) {
	if mode == nil {
		mode = DefaultMode()
	}

	sm := &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
	}

	switch mode.Parity {
	case NoParity:
		sm.Parity = serial.NoParity
	case OddParity:
		sm.Parity = serial.OddParity
	case EvenParity:
		sm.Parity = serial.EvenParity
	}

	switch mode.StopBits {
	case OneStopBit:
		sm.StopBits = serial.OneStopBit
	case TwoStopBits:
		sm.StopBits = serial.TwoStopBits
	}

	return serial.Open(path, sm)
}
