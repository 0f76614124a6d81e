package mavlink

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Message is one encodable dialect message.
type Message interface {
	def() msgDef
	marshalPayload() []byte
}

// AHRS400AngleRaw carries the uncalibrated samples of one AHRS angle frame.
type AHRS400AngleRaw struct {
	TimeUsec            uint64
	Roll, Pitch, Yaw    int16
	XGyro, YGyro, ZGyro int16
	XAcc, YAcc, ZAcc    int16
	XMag, YMag, ZMag    int16
	Temperature         int16
	SensorTime          int16
}

func (AHRS400AngleRaw) def() msgDef { return dialect[MsgIDAHRS400AngleRaw] }

func (m AHRS400AngleRaw) marshalPayload() []byte {
	p := make([]byte, 0, 36)
	p = binary.LittleEndian.AppendUint64(p, m.TimeUsec)
	for _, v := range []int16{
		m.Roll, m.Pitch, m.Yaw,
		m.XGyro, m.YGyro, m.ZGyro,
		m.XAcc, m.YAcc, m.ZAcc,
		m.XMag, m.YMag, m.ZMag,
		m.Temperature, m.SensorTime,
	} {
		p = binary.LittleEndian.AppendUint16(p, uint16(v))
	}
	return p
}

// AHRS400Angle carries one converted attitude sample in physical units.
type AHRS400Angle struct {
	TimeUsec            uint64
	XAcc, YAcc, ZAcc    float32
	XGyro, YGyro, ZGyro float32
	XMag, YMag, ZMag    float32
	Roll, Pitch, Yaw    float32
	Temperature         float32
	SensorTime          float32
}

func (AHRS400Angle) def() msgDef { return dialect[MsgIDAHRS400Angle] }

func (m AHRS400Angle) marshalPayload() []byte {
	p := make([]byte, 0, 64)
	p = binary.LittleEndian.AppendUint64(p, m.TimeUsec)
	for _, v := range []float32{
		m.XAcc, m.YAcc, m.ZAcc,
		m.XGyro, m.YGyro, m.ZGyro,
		m.XMag, m.YMag, m.ZMag,
		m.Roll, m.Pitch, m.Yaw,
		m.Temperature, m.SensorTime,
	} {
		p = binary.LittleEndian.AppendUint32(p, math.Float32bits(v))
	}
	return p
}

// ADCRaw carries one scan of the acquisition board's sixteen channels.
type ADCRaw struct {
	TimeUsec uint64
	Data     [16]int16
}

func (ADCRaw) def() msgDef { return dialect[MsgIDADCRaw] }

func (m ADCRaw) marshalPayload() []byte {
	p := make([]byte, 0, 40)
	p = binary.LittleEndian.AppendUint64(p, m.TimeUsec)
	for _, v := range m.Data {
		p = binary.LittleEndian.AppendUint16(p, uint16(v))
	}
	return p
}

// Encoder serialises dialect messages into MAVLink v1.0 frames. Its only
// state is the outgoing sequence counter, so one Encoder belongs to exactly
// one output stream.
type Encoder struct {
	sysID  uint8
	compID uint8
	seq    uint8
}

// NewEncoder creates an Encoder stamping frames with the given system and
// component ids.
func NewEncoder(sysID, compID uint8) *Encoder {
	return &Encoder{sysID: sysID, compID: compID}
}

// Encode serialises one message, consuming a sequence number.
func (e *Encoder) Encode(m Message) ([]byte, error) {
	def := m.def()
	payload := m.marshalPayload()
	if len(payload) != def.payloadLen {
		return nil, fmt.Errorf("mavlink: %s payload is %d bytes, want %d", def.name, len(payload), def.payloadLen)
	}

	buf := make([]byte, 0, 1+headerLen+len(payload)+crcLen)
	buf = append(buf, Magic, byte(len(payload)), e.seq, e.sysID, e.compID, def.id)
	buf = append(buf, payload...)
	e.seq++

	c := newX25()
	c.update(buf[1:]) // everything after the start marker
	c.updateByte(crcExtra(def))
	buf = append(buf, byte(c.sum&0xFF), byte(c.sum>>8))

	return buf, nil
}
