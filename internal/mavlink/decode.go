package mavlink

import (
	"bufio"
	"io"
)

// Packet is one framed message recovered from a byte stream. Payload fields
// are left unparsed; the tools that consume packets only need the envelope
// and the raw bytes.
type Packet struct {
	Seq     uint8
	SysID   uint8
	CompID  uint8
	MsgID   uint8
	Payload []byte

	// Raw is the complete frame as it appeared on the wire.
	Raw []byte
}

// Decoder recovers framed dialect messages from a continuous byte stream,
// skipping noise and frames that fail CRC validation or belong to unknown
// message ids.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 2*MaxPacketLen)}
}

// Next blocks until the next valid frame or the end of the stream. Invalid
// candidates cost only the start marker byte; the bytes after it are
// re-scanned, so a frame starting inside a corrupt candidate is not lost.
func (d *Decoder) Next() (*Packet, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != Magic {
			continue
		}

		hdr, err := d.r.Peek(1)
		if err != nil {
			return nil, err
		}
		plen := int(hdr[0])

		need := headerLen + plen + crcLen
		body, err := d.r.Peek(need)
		if err == io.EOF {
			// The stream ended before this candidate could complete. A
			// real frame may still start inside the buffered bytes, so
			// keep scanning them instead of giving up.
			continue
		}
		if err != nil {
			return nil, err
		}

		def, known := dialect[body[4]]
		if !known || def.payloadLen != plen {
			continue // resync on the next marker
		}

		c := newX25()
		c.update(body[:headerLen+plen])
		c.updateByte(crcExtra(def))
		if body[headerLen+plen] != byte(c.sum&0xFF) || body[headerLen+plen+1] != byte(c.sum>>8) {
			continue
		}

		raw := make([]byte, 1+need)
		raw[0] = Magic
		copy(raw[1:], body)
		if _, err := d.r.Discard(need); err != nil {
			return nil, err
		}

		return &Packet{
			Seq:     raw[2],
			SysID:   raw[3],
			CompID:  raw[4],
			MsgID:   raw[5],
			Payload: raw[1+headerLen : 1+headerLen+plen],
			Raw:     raw,
		}, nil
	}
}
