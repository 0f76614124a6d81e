// Package ahrs400 implements the serial protocol of Crossbow's AHRS400
// attitude and heading reference system: frame synchronisation with checksum
// validation, conversion of raw samples to calibrated physical units, and the
// startup handshake that places the device in continuous angle mode.
package ahrs400

import "math"

// Wire framing constants. A measurement frame on the wire is one header
// byte, AnglePayloadLen payload bytes, and one trailing checksum byte. The
// header is not included in the checksum.
const (
	// MsgHeader is the sentinel byte that delimits every frame.
	MsgHeader = 0xFF

	// AnglePayloadLen is the payload length of an angle-mode measurement
	// frame, checksum byte not included.
	AnglePayloadLen = 28
)

// Command and expected-response bytes of the startup protocol.
const (
	cmdPolledMode     = 'P'
	cmdContinuousMode = 'C'
	respContinuous    = 'C'

	cmdPing  = 'R'
	respPing = 'H'

	cmdAngleMode  = 'a'
	respAngleMode = 'A'
)

// Hardware calibration constants of the AHRS400CC-200. These scale factors
// are fixed properties of the sensor and are not configurable at runtime.
const (
	// rateRange is the angular rate measurement range in rad/s (200 deg/s).
	rateRange = 200.0 * math.Pi / 180.0

	// accelRange is the linear acceleration measurement range in g.
	accelRange = 4.0

	// gravity is the conversion factor from g to m/s^2 used by the sensor
	// documentation.
	gravity = 9.8

	// magRange is the scale base of the magnetometer channels in gauss.
	magRange = 1.25e-4

	// sensorTimeScale converts the internal sensor timer to seconds.
	sensorTimeScale = 7.9e-7
)

// Checksum returns the frame checksum of a payload: the sum of all payload
// bytes truncated to the low 8 bits.
func Checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return sum
}
