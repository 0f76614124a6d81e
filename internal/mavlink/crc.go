package mavlink

// x25 is the CRC-16/X.25 accumulator used by the MAVLink envelope.
type x25 struct {
	sum uint16
}

func newX25() x25 {
	return x25{sum: 0xFFFF}
}

func (c *x25) updateByte(b byte) {
	tmp := b ^ byte(c.sum&0xFF)
	tmp ^= tmp << 4
	c.sum = (c.sum >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

func (c *x25) update(p []byte) {
	for _, b := range p {
		c.updateByte(b)
	}
}

// crcExtra derives the per-message seed byte from the message definition,
// using the same accumulation over the message name and field signatures as
// the MAVLink generator.
func crcExtra(def msgDef) byte {
	c := newX25()
	c.update([]byte(def.name + " "))
	for _, f := range def.fields {
		c.update([]byte(f.ctype + " "))
		c.update([]byte(f.name + " "))
		if f.arrayLen > 0 {
			c.updateByte(byte(f.arrayLen))
		}
	}
	return byte(c.sum&0xFF) ^ byte(c.sum>>8)
}
