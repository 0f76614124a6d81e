package output

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marioney/fdas3/internal/mavlink"
)

func encodeTestMessage(t *testing.T, seqOffset int) []byte {
	t.Helper()
	enc := mavlink.NewEncoder(1, 200)
	var pkt []byte
	var err error
	for i := 0; i <= seqOffset; i++ {
		pkt, err = enc.Encode(&mavlink.AHRS400AngleRaw{
			TimeUsec: uint64(1469023200000000 + i),
			Roll:     int16(i),
		})
		require.NoError(t, err)
	}
	return pkt
}

func TestTranscriptRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTranscriptSink("binlog", &buf)

	times := []time.Time{
		time.UnixMicro(1469023200000000).UTC(),
		time.UnixMicro(1469023200010000).UTC(),
		time.UnixMicro(1469023200020000).UTC(),
	}
	var messages [][]byte
	for i, ts := range times {
		msg := encodeTestMessage(t, i)
		messages = append(messages, msg)
		require.NoError(t, sink.Emit(Record{Time: ts, Encoded: msg}))
	}

	rd := NewTranscriptReader(&buf)
	for i := range times {
		when, msg, err := rd.Next()
		require.NoError(t, err)
		assert.True(t, when.Equal(times[i]), "record %d timestamp", i)
		assert.Equal(t, messages[i], msg, "record %d bytes", i)
	}

	_, _, err := rd.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTranscriptSkipsRecordsWithoutBytes(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTranscriptSink("binlog", &buf)

	require.NoError(t, sink.Emit(Record{Time: time.Now(), Text: "text only"}))
	assert.Zero(t, buf.Len())
}

func TestTranscriptTruncatedMidRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTranscriptSink("binlog", &buf)
	require.NoError(t, sink.Emit(Record{
		Time:    time.UnixMicro(1469023200000000),
		Encoded: encodeTestMessage(t, 0),
	}))

	// Drop the last few bytes to simulate a crash mid-write.
	trunc := bytes.NewReader(buf.Bytes()[:buf.Len()-5])
	rd := NewTranscriptReader(trunc)
	_, _, err := rd.Next()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestTranscriptRejectsForeignBytes(t *testing.T) {
	raw := make([]byte, 10)
	raw[8] = 0x55 // not a message marker
	rd := NewTranscriptReader(bytes.NewReader(raw))
	_, _, err := rd.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

type failAfterWriter struct {
	n int
}

func (w *failAfterWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("write failed")
	}
	w.n--
	return len(p), nil
}

func TestTranscriptWriteError(t *testing.T) {
	sink := NewTranscriptSink("binlog", &failAfterWriter{n: 1})
	err := sink.Emit(Record{
		Time:    time.UnixMicro(1469023200000000),
		Encoded: encodeTestMessage(t, 0),
	})
	require.Error(t, err)
}
