package ahrs400

import (
	"fmt"
	"io"
	"time"

	"github.com/marioney/fdas3/internal/serialport"
)

// HandshakeState names a step of the startup protocol. The handshake is an
// explicit state machine so tests can assert transition behaviour without
// driving real I/O.
type HandshakeState int

const (
	Idle HandshakeState = iota
	ModeSet
	Flushed
	Pinged
	MeasurementModeSet
	ContinuousModeSet
	Ready
	Failed
)

func (s HandshakeState) String() string {
	switch s {
	case Idle:
		return "idle"
	case ModeSet:
		return "mode-set"
	case Flushed:
		return "flushed"
	case Pinged:
		return "pinged"
	case MeasurementModeSet:
		return "measurement-mode-set"
	case ContinuousModeSet:
		return "continuous-mode-set"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("HandshakeState(%d)", int(s))
}

// Handshake drives the synchronous startup exchange that places the AHRS in
// continuous angle mode: enter polled mode, purge stale device output, ping,
// select angle mode, then request continuous streaming. Any unexpected or
// missing response byte is terminal; there is no partial-success mode.
type Handshake struct {
	port   serialport.Porter
	state  HandshakeState
	settle time.Duration
}

// NewHandshake creates a Handshake over the given port. The settle delay is
// how long to wait for in-flight device output to arrive before it is
// purged; it defaults to one second, matching the device's worst-case
// turnaround after a mode change.
func NewHandshake(port serialport.Porter) *Handshake {
	return &Handshake{
		port:   port,
		state:  Idle,
		settle: time.Second,
	}
}

// SetSettleDelay overrides the purge settle delay. Tests set it to zero.
func (h *Handshake) SetSettleDelay(d time.Duration) { h.settle = d }

// State returns the current handshake state.
func (h *Handshake) State() HandshakeState { return h.state }

// Run executes the handshake from Idle to Ready. On any failure the state
// machine moves to Failed and the error describes the step that broke. Mode
// selection is confirmed before continuous streaming is requested, and the
// device's pending output is purged between configuration and the first
// framed read so stale bytes are never parsed as a frame.
func (h *Handshake) Run() error {
	if h.state != Idle {
		return fmt.Errorf("ahrs400: handshake already ran (state %s)", h.state)
	}

	// Polled mode stops the continuous stream; the device sends no
	// acknowledgement for it.
	if _, err := h.port.Write([]byte{cmdPolledMode}); err != nil {
		return h.fail("entering polled mode", err)
	}
	h.state = ModeSet

	// Let in-flight measurement bytes drain, then discard them.
	if h.settle > 0 {
		time.Sleep(h.settle)
	}
	if r, ok := h.port.(serialport.InputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return h.fail("purging pending input", err)
		}
	}
	h.state = Flushed

	if err := h.exchange("ping", cmdPing, respPing); err != nil {
		return err
	}
	h.state = Pinged

	if err := h.exchange("angle mode", cmdAngleMode, respAngleMode); err != nil {
		return err
	}
	h.state = MeasurementModeSet

	if err := h.exchange("continuous mode", cmdContinuousMode, respContinuous); err != nil {
		return err
	}
	h.state = ContinuousModeSet

	h.state = Ready
	return nil
}

// exchange writes one command byte and blocks for exactly one response byte.
func (h *Handshake) exchange(step string, cmd, want byte) error {
	if _, err := h.port.Write([]byte{cmd}); err != nil {
		return h.fail("sending "+step+" command", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(h.port, resp[:]); err != nil {
		return h.fail("awaiting "+step+" response", err)
	}
	if resp[0] != want {
		return h.fail(step, fmt.Errorf("unexpected response %q, want %q", resp[0], want))
	}
	return nil
}

func (h *Handshake) fail(op string, err error) error {
	h.state = Failed
	return fmt.Errorf("ahrs400: handshake %s: %w", op, err)
}
