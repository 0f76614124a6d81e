package vcmdas1

import (
	"encoding/binary"
	"fmt"
	"os"
)

// DevPort implements PortIO through the Linux /dev/port device, which
// exposes x86 I/O ports as a seekable file. It needs no iopl/ioperm
// privileges beyond read/write access to the device node.
type DevPort struct {
	f    *os.File
	base uint16
}

// OpenDevPort opens /dev/port for register access at the given base
// address. The VCM-DAS-1 factory default base is 0x3E0.
func OpenDevPort(base uint16) (*DevPort, error) {
	f, err := os.OpenFile("/dev/port", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("vcmdas1: opening /dev/port: %w", err)
	}
	return &DevPort{f: f, base: base}, nil
}

func (p *DevPort) ReadByte(off uint16) (byte, error) {
	var b [1]byte
	if _, err := p.f.ReadAt(b[:], int64(p.base+off)); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *DevPort) ReadWord(off uint16) (uint16, error) {
	var b [2]byte
	if _, err := p.f.ReadAt(b[:], int64(p.base+off)); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (p *DevPort) WriteByte(off uint16, v byte) error {
	_, err := p.f.WriteAt([]byte{v}, int64(p.base+off))
	return err
}

func (p *DevPort) WriteWord(off uint16, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := p.f.WriteAt(b[:], int64(p.base+off))
	return err
}

// Close releases the /dev/port handle.
func (p *DevPort) Close() error {
	return p.f.Close()
}
