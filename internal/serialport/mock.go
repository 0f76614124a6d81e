package serialport

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// ScriptedPort implements Porter with configurable behaviour for testing.
// Reads are served from a buffer that the test can extend; writes are
// captured for later inspection.
type ScriptedPort struct {
	mu sync.Mutex

	// ReadBuffer holds data to be returned by Read calls.
	ReadBuffer *bytes.Buffer

	// WriteBuffer captures data written to the port.
	WriteBuffer *bytes.Buffer

	// ReadError is returned by the next Read call if set.
	ReadError error

	// WriteError is returned by the next Write call if set.
	WriteError error

	// Closed indicates whether Close was called.
	Closed bool

	// ResetCalls records the number of ResetInputBuffer calls.
	ResetCalls int

	// Responder, if set, is called after each Write with the written bytes
	// and may queue response data into the read buffer. This lets tests
	// script command/response exchanges.
	Responder func(wrote []byte) []byte
}

// NewScriptedPort creates a ScriptedPort whose reads serve the given data.
func NewScriptedPort(data []byte) *ScriptedPort {
	return &ScriptedPort{
		ReadBuffer:  bytes.NewBuffer(data),
		WriteBuffer: bytes.NewBuffer(nil),
	}
}

// Read serves bytes from the read buffer. When the buffer runs out it
// returns io.EOF, matching a disconnected device.
func (p *ScriptedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return 0, errors.New("serial port closed")
	}
	if p.ReadError != nil {
		err := p.ReadError
		p.ReadError = nil
		return 0, err
	}
	if p.ReadBuffer.Len() == 0 {
		return 0, io.EOF
	}
	return p.ReadBuffer.Read(b)
}

// Write captures written bytes and lets the Responder queue replies.
func (p *ScriptedPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return 0, errors.New("serial port closed")
	}
	if p.WriteError != nil {
		err := p.WriteError
		p.WriteError = nil
		return 0, err
	}
	n, err := p.WriteBuffer.Write(b)
	if err == nil && p.Responder != nil {
		if reply := p.Responder(b); len(reply) > 0 {
			p.ReadBuffer.Write(reply)
		}
	}
	return n, err
}

// Close marks the port as closed.
func (p *ScriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// ResetInputBuffer discards all pending read data.
func (p *ScriptedPort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ResetCalls++
	p.ReadBuffer.Reset()
	return nil
}

// AddReadData appends data to be returned by subsequent Read calls.
func (p *ScriptedPort) AddReadData(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadBuffer.Write(data)
}

// WrittenData returns all data written to the port.
func (p *ScriptedPort) WrittenData() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.WriteBuffer.Bytes()
}
