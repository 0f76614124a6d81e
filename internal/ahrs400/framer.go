package ahrs400

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"
)

// FrameStatus classifies the outcome of one framing attempt.
type FrameStatus int

const (
	// FrameAccepted means a payload passed checksum validation.
	FrameAccepted FrameStatus = iota

	// FrameResynced means the work buffer was discarded after corruption
	// and scanning must restart from the live stream. Not an error; the
	// caller simply tries again.
	FrameResynced

	// FrameFatal means the byte source reached end-of-stream or failed.
	// The session cannot continue.
	FrameFatal
)

// FrameResult is the outcome of one framing attempt. Payload and Timestamp
// are only valid when Status is FrameAccepted; Err is only set when Status
// is FrameFatal.
type FrameResult struct {
	Status    FrameStatus
	Payload   []byte
	Timestamp time.Time
	Err       error
}

// Framer recovers fixed-length checksummed frames from a raw byte stream.
// It scans for the header sentinel, validates the trailing checksum, and on
// corruption resynchronises without discarding bytes that may belong to the
// next valid frame.
//
// A Framer owns its reader for the life of the session and is not safe for
// concurrent use.
type Framer struct {
	r          *bufio.Reader
	payloadLen int
	buf        []byte

	frames  uint64
	resyncs uint64

	// now is the reception-timestamp clock, replaceable in tests.
	now func() time.Time
}

// NewFramer creates a Framer reading frames with the given payload length
// from src. The payload length must be known up front; for the AHRS angle
// message it is AnglePayloadLen.
func NewFramer(src io.Reader, payloadLen int) *Framer {
	return &Framer{
		r:          bufio.NewReader(src),
		payloadLen: payloadLen,
		buf:        make([]byte, payloadLen+1),
		now:        time.Now,
	}
}

// ReadFrame blocks until a validated payload arrives or the byte source
// fails. The returned timestamp is the host time at which the frame's header
// byte was first observed, not when the payload finished arriving. The
// returned payload is only valid until the next call.
func (f *Framer) ReadFrame() ([]byte, time.Time, error) {
	for {
		res := f.next()
		switch res.Status {
		case FrameAccepted:
			f.frames++
			return res.Payload, res.Timestamp, nil
		case FrameResynced:
			continue
		case FrameFatal:
			return nil, time.Time{}, res.Err
		}
	}
}

// next performs a single framing attempt: find a header, fill the work
// buffer, validate. On checksum mismatch it attempts a partial resync within
// the already-buffered bytes; only when no header candidate remains does it
// report FrameResynced and hand control back for a full rescan of the live
// stream.
func (f *Framer) next() FrameResult {
	// Scan the stream byte-by-byte for the header sentinel.
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			return f.fatal("scanning for header", err)
		}
		if b == MsgHeader {
			break
		}
	}

	// The reception timestamp is captured as soon as the header is seen.
	ts := f.now()

	// Read payload plus trailing checksum.
	if _, err := io.ReadFull(f.r, f.buf); err != nil {
		return f.fatal("reading frame body", err)
	}

	for {
		payload := f.buf[:f.payloadLen]
		if Checksum(payload) == f.buf[f.payloadLen] {
			return FrameResult{Status: FrameAccepted, Payload: payload, Timestamp: ts}
		}

		// Checksum mismatch. The buffered bytes may already contain the
		// start of the next valid frame, so rescan them (excluding
		// position 0, the byte that followed the corrupt header) before
		// falling back to the live stream.
		i := bytes.IndexByte(f.buf[1:], MsgHeader)
		if i < 0 {
			f.resyncs++
			return FrameResult{Status: FrameResynced}
		}
		i++ // index within f.buf

		// The byte at offset i is consumed as the new header. Bytes
		// after it move to the front of the buffer and only the missing
		// tail is read from the stream. The previously captured
		// timestamp is invalid now that a new header has been adopted.
		ts = f.now()
		kept := copy(f.buf, f.buf[i+1:])
		if _, err := io.ReadFull(f.r, f.buf[kept:]); err != nil {
			return f.fatal("refilling after resync", err)
		}
		f.resyncs++
	}
}

func (f *Framer) fatal(op string, err error) FrameResult {
	return FrameResult{
		Status: FrameFatal,
		Err:    fmt.Errorf("ahrs400: %s: %w", op, err),
	}
}

// Frames returns the number of frames accepted so far.
func (f *Framer) Frames() uint64 { return f.frames }

// Resyncs returns the number of resynchronisation events performed so far,
// counting both partial (in-buffer) and full (live stream) resyncs.
func (f *Framer) Resyncs() uint64 { return f.resyncs }
