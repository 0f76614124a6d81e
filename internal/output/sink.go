// Package output fans decoded and encoded records out to the configured
// sinks: structured text logs, binary MAVLink transcripts, UDP telemetry and
// the sample store. Sinks are independent; one sink failing never disables
// or delays another, and a sink error never stops the acquisition loop.
package output

import (
	"io"
	"time"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/monitoring"
	"github.com/marioney/fdas3/internal/vcmdas1"
)

// Record is one emission unit handed to the sink set. Which parts are
// populated depends on the stage that produced it: raw messages carry only
// encoded bytes, converted samples also carry the text line and the typed
// sample for the store.
type Record struct {
	// Time is the host reception timestamp of the underlying frame.
	Time time.Time

	// Encoded holds the wire-codec bytes of the record, if it was encoded.
	Encoded []byte

	// Text is the tab-separated line of physical fields, if applicable.
	Text string

	// Angle is the converted attitude sample, if this record carries one.
	Angle *ahrs400.Angle

	// ADC is the acquisition board sample, if this record carries one.
	ADC *vcmdas1.Sample
}

// Sink is an independent output destination. A sink inspects the record and
// writes whichever representation it handles; records without that
// representation are skipped silently.
type Sink interface {
	Name() string
	Emit(rec Record) error
}

// SinkSet owns the configured sinks and delivers every record to each of
// them in order. Failure isolation is the whole point of this type: a
// failing sink is logged and counted, the remaining sinks still receive the
// record, and Emit never returns an error to the caller.
type SinkSet struct {
	sinks  []Sink
	errors uint64
}

// NewSinkSet creates a SinkSet over the given sinks. A nil or empty list is
// valid; records are then discarded.
func NewSinkSet(sinks ...Sink) *SinkSet {
	return &SinkSet{sinks: sinks}
}

// Add appends a sink to the set.
func (s *SinkSet) Add(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Len returns the number of configured sinks.
func (s *SinkSet) Len() int { return len(s.sinks) }

// Emit delivers one record to every sink. Each sink's write is attempted
// independently; errors are logged and swallowed so the acquisition loop is
// never held up by an output destination.
func (s *SinkSet) Emit(rec Record) {
	for _, sink := range s.sinks {
		if err := sink.Emit(rec); err != nil {
			s.errors++
			monitoring.Logf("output: %s sink: %v", sink.Name(), err)
		}
	}
}

// Errors returns the number of sink write failures observed so far.
func (s *SinkSet) Errors() uint64 { return s.errors }

// Close closes every sink that is also an io.Closer. The first error is
// returned but all sinks are attempted.
func (s *SinkSet) Close() error {
	var first error
	for _, sink := range s.sinks {
		if c, ok := sink.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
