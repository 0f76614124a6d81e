package ahrs400

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

// fakeClock returns a clock function that yields t0, t0+1s, t0+2s, ...
func fakeClock(t0 time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		ts := t0.Add(time.Duration(n) * time.Second)
		n++
		return ts
	}
}

func TestChecksum(t *testing.T) {
	cases := []struct {
		payload []byte
		want    byte
	}{
		{[]byte{}, 0x00},
		{[]byte{0x01}, 0x01},
		{[]byte{0x01, 0x02, 0x03}, 0x06},
		{[]byte{0xFF, 0x01}, 0x00},       // wraps to low 8 bits
		{[]byte{0x80, 0x80, 0x80}, 0x80}, // 0x180 truncated
	}
	for _, c := range cases {
		if got := Checksum(c.payload); got != c.want {
			t.Errorf("Checksum(% X) = %#x, want %#x", c.payload, got, c.want)
		}
	}
}

// TestFramerAcceptsIffChecksumMatches verifies that for a fixed payload,
// every possible trailing byte is accepted exactly when it equals the low 8
// bits of the payload sum.
func TestFramerAcceptsIffChecksumMatches(t *testing.T) {
	payload := make([]byte, AnglePayloadLen)
	for i := range payload {
		payload[i] = byte(i + 1) // no 0xFF anywhere, so no partial resync
	}
	want := Checksum(payload)

	for trailer := 0; trailer < 256; trailer++ {
		stream := append([]byte{MsgHeader}, payload...)
		stream = append(stream, byte(trailer))

		f := NewFramer(bytes.NewReader(stream), AnglePayloadLen)
		res := f.next()

		switch {
		case byte(trailer) == want:
			if res.Status != FrameAccepted {
				t.Fatalf("trailer %#x: status %v, want FrameAccepted", trailer, res.Status)
			}
			if !bytes.Equal(res.Payload, payload) {
				t.Fatalf("trailer %#x: payload mismatch", trailer)
			}
		case byte(trailer) == MsgHeader:
			// The trailer is adopted as a new header during resync and the
			// stream then ends mid-frame.
			if res.Status != FrameFatal {
				t.Fatalf("trailer %#x: status %v, want FrameFatal", trailer, res.Status)
			}
		default:
			if res.Status != FrameResynced {
				t.Fatalf("trailer %#x: status %v, want FrameResynced", trailer, res.Status)
			}
		}
	}
}

func TestFramerZeroFrame(t *testing.T) {
	// Checksum of an all-zero payload is zero.
	stream := append([]byte{MsgHeader}, make([]byte, AnglePayloadLen+1)...)

	f := NewFramer(bytes.NewReader(stream), AnglePayloadLen)
	t0 := time.Date(2016, 3, 14, 12, 0, 0, 0, time.UTC)
	f.now = fakeClock(t0)

	payload, ts, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(payload, make([]byte, AnglePayloadLen)) {
		t.Errorf("payload = % X, want all zeros", payload)
	}
	if !ts.Equal(t0) {
		t.Errorf("timestamp = %v, want header capture time %v", ts, t0)
	}
	if f.Frames() != 1 || f.Resyncs() != 0 {
		t.Errorf("frames=%d resyncs=%d, want 1 and 0", f.Frames(), f.Resyncs())
	}
}

func TestFramerSkipsLeadingNoise(t *testing.T) {
	payload := make([]byte, AnglePayloadLen)
	payload[3] = 0x42

	stream := []byte{0x00, 0x13, 0x37} // noise before the header
	stream = append(stream, MsgHeader)
	stream = append(stream, payload...)
	stream = append(stream, Checksum(payload))

	f := NewFramer(bytes.NewReader(stream), AnglePayloadLen)
	got, _, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = % X, want % X", got, payload)
	}
}

// TestFramerPartialResync feeds header, corrupt-payload, header,
// valid-payload, checksum and expects exactly one accepted frame (the valid
// one) after a single resync, with no bytes re-read from the stream.
func TestFramerPartialResync(t *testing.T) {
	valid := make([]byte, AnglePayloadLen)
	for i := range valid {
		valid[i] = byte(i + 2) // 0x02..0x1D, no header byte
	}

	garbage := bytes.Repeat([]byte{0x01}, 10)

	stream := []byte{MsgHeader}
	stream = append(stream, garbage...)
	stream = append(stream, MsgHeader)
	stream = append(stream, valid...)
	stream = append(stream, Checksum(valid))

	src := bytes.NewReader(stream)
	f := NewFramer(src, AnglePayloadLen)
	t0 := time.Date(2016, 3, 14, 12, 0, 0, 0, time.UTC)
	f.now = fakeClock(t0)

	payload, ts, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(payload, valid) {
		t.Errorf("payload = % X, want % X", payload, valid)
	}
	if f.Resyncs() != 1 {
		t.Errorf("resyncs = %d, want 1", f.Resyncs())
	}
	// The timestamp must belong to the second header, captured during the
	// resync, not the corrupt first header.
	if !ts.Equal(t0.Add(time.Second)) {
		t.Errorf("timestamp = %v, want resync capture time %v", ts, t0.Add(time.Second))
	}
	// Every byte of the stream was consumed exactly once.
	if src.Len() != 0 {
		t.Errorf("%d stream bytes left unread", src.Len())
	}
}

// TestFramerFullResync covers the fallback path: a corrupt frame whose
// buffered bytes contain no other header candidate is discarded entirely and
// scanning resumes from the live stream.
func TestFramerFullResync(t *testing.T) {
	corrupt := bytes.Repeat([]byte{0x07}, AnglePayloadLen+1) // bad checksum, no header bytes
	valid := make([]byte, AnglePayloadLen)
	valid[0] = 0x0A

	stream := []byte{MsgHeader}
	stream = append(stream, corrupt...)
	stream = append(stream, MsgHeader)
	stream = append(stream, valid...)
	stream = append(stream, Checksum(valid))

	f := NewFramer(bytes.NewReader(stream), AnglePayloadLen)
	payload, _, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(payload, valid) {
		t.Errorf("payload = % X, want % X", payload, valid)
	}
	if f.Resyncs() != 1 {
		t.Errorf("resyncs = %d, want 1", f.Resyncs())
	}
}

func TestFramerEndOfStreamIsFatal(t *testing.T) {
	// EOF while scanning for a header.
	f := NewFramer(bytes.NewReader(nil), AnglePayloadLen)
	if _, _, err := f.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame on empty stream: err = %v, want io.EOF", err)
	}

	// EOF in the middle of a frame body.
	f = NewFramer(bytes.NewReader([]byte{MsgHeader, 0x01, 0x02}), AnglePayloadLen)
	if _, _, err := f.ReadFrame(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadFrame on truncated frame: err = %v, want io.ErrUnexpectedEOF", err)
	}
}
