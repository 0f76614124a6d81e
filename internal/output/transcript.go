package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/marioney/fdas3/internal/mavlink"
)

// TranscriptSink writes a binary transcript suitable for faithful replay:
// each record is an 8-byte big-endian microsecond epoch timestamp followed
// immediately by the encoded message bytes.
type TranscriptSink struct {
	name string
	w    io.Writer
}

// NewTranscriptSink creates a TranscriptSink over w. The sink does not own
// the writer.
func NewTranscriptSink(name string, w io.Writer) *TranscriptSink {
	return &TranscriptSink{name: name, w: w}
}

func (s *TranscriptSink) Name() string { return s.name }

// Emit appends one transcript record. Records without encoded bytes are
// skipped.
func (s *TranscriptSink) Emit(rec Record) error {
	if len(rec.Encoded) == 0 {
		return nil
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(rec.Time.UnixMicro()))
	if _, err := s.w.Write(ts[:]); err != nil {
		return fmt.Errorf("writing transcript timestamp: %w", err)
	}
	if _, err := s.w.Write(rec.Encoded); err != nil {
		return fmt.Errorf("writing transcript message: %w", err)
	}
	return nil
}

// TranscriptReader iterates over the records of a binary transcript.
type TranscriptReader struct {
	r io.Reader
}

// NewTranscriptReader creates a TranscriptReader over r.
func NewTranscriptReader(r io.Reader) *TranscriptReader {
	return &TranscriptReader{r: r}
}

// Next returns the next record's timestamp and encoded message bytes. It
// returns io.EOF at a clean end of the transcript and
// io.ErrUnexpectedEOF if the file is truncated mid-record.
func (t *TranscriptReader) Next() (time.Time, []byte, error) {
	var ts [8]byte
	if _, err := io.ReadFull(t.r, ts[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return time.Time{}, nil, io.ErrUnexpectedEOF
		}
		return time.Time{}, nil, err
	}

	// The message length is carried in the envelope: start marker plus
	// payload-length byte, then the rest of the frame.
	var head [2]byte
	if _, err := io.ReadFull(t.r, head[:]); err != nil {
		return time.Time{}, nil, unexpected(err)
	}
	if head[0] != mavlink.Magic {
		return time.Time{}, nil, fmt.Errorf("transcript record does not start with a message marker (got %#02x)", head[0])
	}

	msg := make([]byte, 2+int(head[1])+6) // marker, len, seq, sys, comp, id, payload, crc
	copy(msg, head[:])
	if _, err := io.ReadFull(t.r, msg[2:]); err != nil {
		return time.Time{}, nil, unexpected(err)
	}

	when := time.UnixMicro(int64(binary.BigEndian.Uint64(ts[:]))).UTC()
	return when, msg, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
