package ahrs400

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// AngleRaw holds the uncalibrated 16-bit samples of one angle-mode frame,
// in device units, plus the host reception timestamp.
type AngleRaw struct {
	Time time.Time

	Roll, Pitch, Yaw    int16
	XGyro, YGyro, ZGyro int16
	XAcc, YAcc, ZAcc    int16
	XMag, YMag, ZMag    int16
	Temperature         int16
	SensorTime          int16
}

// Angle is one fully converted measurement record in physical units.
// Values are immutable after creation.
type Angle struct {
	Time time.Time

	// Orientation angles in radians, range [-pi, pi].
	Roll, Pitch, Yaw float64

	// Angular rates in rad/s.
	XGyro, YGyro, ZGyro float64

	// Linear accelerations in m/s^2.
	XAcc, YAcc, ZAcc float64

	// Magnetic field components in gauss.
	XMag, YMag, ZMag float64

	// Temperature in degrees Celsius.
	Temperature float64

	// SensorTime is the internal sensor time offset in seconds.
	SensorTime float64
}

// ParseAngleRaw assembles the raw integer fields of an angle-mode payload.
// Fields are 16-bit signed values stored big-endian at fixed offsets.
func ParseAngleRaw(payload []byte, ts time.Time) (AngleRaw, error) {
	if len(payload) != AnglePayloadLen {
		return AngleRaw{}, fmt.Errorf("ahrs400: angle payload must be %d bytes, got %d", AnglePayloadLen, len(payload))
	}

	field := func(i int) int16 {
		return int16(binary.BigEndian.Uint16(payload[2*i:]))
	}

	return AngleRaw{
		Time:        ts,
		Roll:        field(0),
		Pitch:       field(1),
		Yaw:         field(2),
		XGyro:       field(3),
		YGyro:       field(4),
		ZGyro:       field(5),
		XAcc:        field(6),
		YAcc:        field(7),
		ZAcc:        field(8),
		XMag:        field(9),
		YMag:        field(10),
		ZMag:        field(11),
		Temperature: field(12),
		SensorTime:  field(13),
	}, nil
}

// Convert maps raw samples to calibrated physical values. It is a pure
// function of its input: the same raw integer always yields the same
// physical value.
func Convert(raw AngleRaw) Angle {
	return Angle{
		Time:        raw.Time,
		Roll:        angle(raw.Roll),
		Pitch:       angle(raw.Pitch),
		Yaw:         angle(raw.Yaw),
		XGyro:       angularRate(raw.XGyro),
		YGyro:       angularRate(raw.YGyro),
		ZGyro:       angularRate(raw.ZGyro),
		XAcc:        acceleration(raw.XAcc),
		YAcc:        acceleration(raw.YAcc),
		ZAcc:        acceleration(raw.ZAcc),
		XMag:        magneticField(raw.XMag),
		YMag:        magneticField(raw.YMag),
		ZMag:        magneticField(raw.ZMag),
		Temperature: temperature(raw.Temperature),
		SensorTime:  sensorTime(raw.SensorTime),
	}
}

func angle(raw int16) float64 {
	return float64(raw) * math.Pi / 32768
}

func angularRate(raw int16) float64 {
	return float64(raw) * 1.5 * rateRange / 32768
}

func acceleration(raw int16) float64 {
	return float64(raw) * 1.5 * accelRange * gravity / 32768
}

func magneticField(raw int16) float64 {
	return float64(raw) * 1.5 * magRange / 32768
}

func temperature(raw int16) float64 {
	return (float64(raw)*5/4096 - 1.375) * 44.44
}

func sensorTime(raw int16) float64 {
	return -float64(raw) * sensorTimeScale
}
