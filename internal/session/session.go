// Package session runs acquisition loops: it ties a device to the wire
// codec and fans every sample out to the configured sinks. One session is
// one device for the life of the process.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/mavlink"
	"github.com/marioney/fdas3/internal/monitoring"
	"github.com/marioney/fdas3/internal/output"
	"github.com/marioney/fdas3/internal/vcmdas1"
)

// Identity stamped into every outgoing message envelope.
const (
	SystemID    = 1
	ComponentID = 200
)

// AngleSession reads angle-mode frames from an AHRS byte stream and
// publishes each one twice: first the raw device counts, then the converted
// physical sample with its text line.
type AngleSession struct {
	id     string
	framer *ahrs400.Framer
	enc    *mavlink.Encoder
	sinks  *output.SinkSet

	samples uint64
}

// NewAngleSession creates a session over an already-configured device byte
// stream. The caller runs the mode handshake before handing the stream over.
func NewAngleSession(src io.Reader, sinks *output.SinkSet) *AngleSession {
	return &AngleSession{
		id:     uuid.NewString(),
		framer: ahrs400.NewFramer(src, ahrs400.AnglePayloadLen),
		enc:    mavlink.NewEncoder(SystemID, ComponentID),
		sinks:  sinks,
	}
}

// ID returns the session identifier used to group stored samples.
func (s *AngleSession) ID() string { return s.id }

// Samples returns the number of frames published so far.
func (s *AngleSession) Samples() uint64 { return s.samples }

// Resyncs returns the number of stream resynchronisations so far.
func (s *AngleSession) Resyncs() uint64 { return s.framer.Resyncs() }

// Run reads frames until the byte stream fails or ctx is cancelled. A
// cancelled context is reported as ctx.Err(); any other return is a fatal
// device error.
func (s *AngleSession) Run(ctx context.Context) error {
	for {
		payload, ts, err := s.framer.ReadFrame()
		if err != nil {
			// Closing the port to interrupt a blocked read surfaces
			// here as a read error. Report the cancellation instead.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := s.publish(payload, ts); err != nil {
			return err
		}
	}
}

// publish encodes and fans out one validated frame.
func (s *AngleSession) publish(payload []byte, ts time.Time) error {
	raw, err := ahrs400.ParseAngleRaw(payload, ts)
	if err != nil {
		return err
	}

	usec := uint64(ts.UnixMicro())

	rawPkt, err := s.enc.Encode(&mavlink.AHRS400AngleRaw{
		TimeUsec:    usec,
		Roll:        raw.Roll,
		Pitch:       raw.Pitch,
		Yaw:         raw.Yaw,
		XGyro:       raw.XGyro,
		YGyro:       raw.YGyro,
		ZGyro:       raw.ZGyro,
		XAcc:        raw.XAcc,
		YAcc:        raw.YAcc,
		ZAcc:        raw.ZAcc,
		XMag:        raw.XMag,
		YMag:        raw.YMag,
		ZMag:        raw.ZMag,
		Temperature: raw.Temperature,
		SensorTime:  raw.SensorTime,
	})
	if err != nil {
		return fmt.Errorf("encoding raw sample: %w", err)
	}
	s.sinks.Emit(output.Record{Time: ts, Encoded: rawPkt})

	conv := ahrs400.Convert(raw)
	convPkt, err := s.enc.Encode(&mavlink.AHRS400Angle{
		TimeUsec:    usec,
		XAcc:        float32(conv.XAcc),
		YAcc:        float32(conv.YAcc),
		ZAcc:        float32(conv.ZAcc),
		XGyro:       float32(conv.XGyro),
		YGyro:       float32(conv.YGyro),
		ZGyro:       float32(conv.ZGyro),
		XMag:        float32(conv.XMag),
		YMag:        float32(conv.YMag),
		ZMag:        float32(conv.ZMag),
		Roll:        float32(conv.Roll),
		Pitch:       float32(conv.Pitch),
		Yaw:         float32(conv.Yaw),
		Temperature: float32(conv.Temperature),
		SensorTime:  float32(conv.SensorTime),
	})
	if err != nil {
		return fmt.Errorf("encoding converted sample: %w", err)
	}
	s.sinks.Emit(output.Record{
		Time:    ts,
		Encoded: convPkt,
		Text:    output.AngleLine(&conv),
		Angle:   &conv,
	})

	s.samples++
	return nil
}

// ADCSession periodically scans the acquisition board and publishes each
// scan as a raw-counts message plus its text line.
type ADCSession struct {
	id       string
	board    *vcmdas1.Board
	enc      *mavlink.Encoder
	sinks    *output.SinkSet
	interval time.Duration

	samples  uint64
	scanErrs uint64
}

// DefaultADCInterval is the default scan period, 50 Hz.
const DefaultADCInterval = 20 * time.Millisecond

// NewADCSession creates a session scanning board every interval. A
// non-positive interval selects DefaultADCInterval.
func NewADCSession(board *vcmdas1.Board, sinks *output.SinkSet, interval time.Duration) *ADCSession {
	if interval <= 0 {
		interval = DefaultADCInterval
	}
	return &ADCSession{
		id:       uuid.NewString(),
		board:    board,
		enc:      mavlink.NewEncoder(SystemID, ComponentID),
		sinks:    sinks,
		interval: interval,
	}
}

// ID returns the session identifier used to group stored samples.
func (s *ADCSession) ID() string { return s.id }

// Samples returns the number of scans published so far.
func (s *ADCSession) Samples() uint64 { return s.samples }

// Run scans the board on a fixed period until ctx is cancelled. A failed
// scan is logged and the next period's scan proceeds; only context
// cancellation ends the loop.
func (s *ADCSession) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		sample, err := s.board.ReadAll()
		if err != nil {
			s.scanErrs++
			monitoring.Logf("session: board scan: %v", err)
			continue
		}

		pkt, err := s.enc.Encode(&mavlink.ADCRaw{
			TimeUsec: uint64(sample.Time.UnixMicro()),
			Data:     sample.Data,
		})
		if err != nil {
			return fmt.Errorf("encoding board scan: %w", err)
		}

		s.sinks.Emit(output.Record{
			Time:    sample.Time,
			Encoded: pkt,
			Text:    output.ADCLine(&sample),
			ADC:     &sample,
		})
		s.samples++
	}
}
