// Package mavlink implements the MAVLink v1.0 wire envelope and the fdas3
// dialect messages used to publish instrumentation samples. Only what the
// acquisition pipeline needs is implemented: encoding of the dialect
// messages and a stream decoder good enough to delimit and validate framed
// messages in transcripts and serial captures.
package mavlink

// Envelope constants for MAVLink v1.0.
const (
	// Magic is the start-of-frame marker.
	Magic = 0xFE

	// headerLen counts the bytes between the start marker and the payload:
	// length, sequence, system id, component id, message id.
	headerLen = 5

	// crcLen is the size of the trailing checksum.
	crcLen = 2

	// MaxPacketLen is the largest possible encoded message.
	MaxPacketLen = 1 + headerLen + 255 + crcLen
)

// Message ids of the fdas3 dialect.
const (
	MsgIDAHRS400AngleRaw = 150
	MsgIDAHRS400Angle    = 151
	MsgIDADCRaw          = 152
)

// fieldDef describes one message field as it appears in the dialect
// definition. The declaration order below is already the wire order
// (MAVLink sorts fields by decreasing size, stable).
type fieldDef struct {
	name     string
	ctype    string
	arrayLen int
}

// msgDef describes one dialect message.
type msgDef struct {
	id         uint8
	name       string
	payloadLen int
	fields     []fieldDef
}

var dialect = map[uint8]msgDef{
	MsgIDAHRS400AngleRaw: {
		id:         MsgIDAHRS400AngleRaw,
		name:       "AHRS400_ANGLE_RAW",
		payloadLen: 36,
		fields: []fieldDef{
			{name: "time_usec", ctype: "uint64_t"},
			{name: "roll", ctype: "int16_t"},
			{name: "pitch", ctype: "int16_t"},
			{name: "yaw", ctype: "int16_t"},
			{name: "xgyro", ctype: "int16_t"},
			{name: "ygyro", ctype: "int16_t"},
			{name: "zgyro", ctype: "int16_t"},
			{name: "xacc", ctype: "int16_t"},
			{name: "yacc", ctype: "int16_t"},
			{name: "zacc", ctype: "int16_t"},
			{name: "xmag", ctype: "int16_t"},
			{name: "ymag", ctype: "int16_t"},
			{name: "zmag", ctype: "int16_t"},
			{name: "temperature", ctype: "int16_t"},
			{name: "sensor_time", ctype: "int16_t"},
		},
	},
	MsgIDAHRS400Angle: {
		id:         MsgIDAHRS400Angle,
		name:       "AHRS400_ANGLE",
		payloadLen: 64,
		fields: []fieldDef{
			{name: "time_usec", ctype: "uint64_t"},
			{name: "xacc", ctype: "float"},
			{name: "yacc", ctype: "float"},
			{name: "zacc", ctype: "float"},
			{name: "xgyro", ctype: "float"},
			{name: "ygyro", ctype: "float"},
			{name: "zgyro", ctype: "float"},
			{name: "xmag", ctype: "float"},
			{name: "ymag", ctype: "float"},
			{name: "zmag", ctype: "float"},
			{name: "roll", ctype: "float"},
			{name: "pitch", ctype: "float"},
			{name: "yaw", ctype: "float"},
			{name: "temperature", ctype: "float"},
			{name: "sensor_time", ctype: "float"},
		},
	},
	MsgIDADCRaw: {
		id:         MsgIDADCRaw,
		name:       "ADC_RAW",
		payloadLen: 40,
		fields: []fieldDef{
			{name: "time_usec", ctype: "uint64_t"},
			{name: "data", ctype: "int16_t", arrayLen: 16},
		},
	},
}
