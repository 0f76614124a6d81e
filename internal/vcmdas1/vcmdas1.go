// Package vcmdas1 drives the Versalogic VCM-DAS-1 analog acquisition board
// for the PC/104 stack. The board is register-programmed; all access goes
// through the PortIO capability so the scan logic can be exercised against a
// scripted bus in tests.
package vcmdas1

import (
	"fmt"
	"time"
)

// Channels is the number of analog input channels scanned per sample.
const Channels = 16

// Board register offsets relative to the configured base address.
const (
	regControl = 0x00
	regADCStat = 0x00
	regADCSel  = 0x01
	regADCLo   = 0x04
)

// ADC status register bits.
const (
	doneBit = 0x40
	busyBit = 0x80
)

// selectConvert is OR-ed into the channel number when writing the select
// register; it triggers an immediate conversion.
const selectConvert = 0x100

// PortIO is the capability through which the board's registers are
// accessed.
type PortIO interface {
	ReadByte(off uint16) (byte, error)
	ReadWord(off uint16) (uint16, error)
	WriteByte(off uint16, v byte) error
	WriteWord(off uint16, v uint16) error
}

// Sample is one complete scan of the board's analog channels plus the host
// timestamp captured when the scan started.
type Sample struct {
	Time time.Time
	Data [Channels]int16
}

// Board reads analog samples from a VCM-DAS-1.
type Board struct {
	io PortIO

	// settle is how long to wait between channel selection and reading
	// back the conversion result.
	settle time.Duration

	now func() time.Time
}

// NewBoard creates a Board over the given register access capability.
func NewBoard(io PortIO) *Board {
	return &Board{
		io:     io,
		settle: 10 * time.Microsecond,
		now:    time.Now,
	}
}

// Init programs the control register for polled single-conversion mode.
func (b *Board) Init() error {
	if err := b.io.WriteByte(regControl, 0); err != nil {
		return fmt.Errorf("vcmdas1: setting control register: %w", err)
	}
	return nil
}

// readChannel converts and reads one analog channel.
func (b *Board) readChannel(ch int) (int16, error) {
	if err := b.io.WriteWord(regADCSel, uint16(ch)|selectConvert); err != nil {
		return 0, fmt.Errorf("vcmdas1: selecting channel %d: %w", ch, err)
	}

	if b.settle > 0 {
		time.Sleep(b.settle)
	}

	status, err := b.io.ReadByte(regADCStat)
	if err != nil {
		return 0, fmt.Errorf("vcmdas1: reading status: %w", err)
	}
	if status&doneBit == 0 {
		return 0, fmt.Errorf("vcmdas1: channel %d conversion not done (status %#02x)", ch, status)
	}

	v, err := b.io.ReadWord(regADCLo)
	if err != nil {
		return 0, fmt.Errorf("vcmdas1: reading channel %d: %w", ch, err)
	}
	return int16(v), nil
}

// ReadAll scans every channel into one Sample. The timestamp is captured
// before the first conversion starts.
func (b *Board) ReadAll() (Sample, error) {
	s := Sample{Time: b.now()}
	for ch := 0; ch < Channels; ch++ {
		v, err := b.readChannel(ch)
		if err != nil {
			return Sample{}, err
		}
		s.Data[ch] = v
	}
	return s, nil
}
