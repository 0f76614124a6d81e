package ahrs400

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marioney/fdas3/internal/serialport"
)

// deviceResponder scripts the AHRS command/response behaviour. Unmapped
// commands produce no reply, like a device that went silent.
func deviceResponder(responses map[byte]byte) func([]byte) []byte {
	return func(wrote []byte) []byte {
		var reply []byte
		for _, cmd := range wrote {
			if resp, ok := responses[cmd]; ok {
				reply = append(reply, resp)
			}
		}
		return reply
	}
}

func TestHandshakeReachesReady(t *testing.T) {
	port := serialport.NewScriptedPort(nil)
	port.Responder = deviceResponder(map[byte]byte{
		'R': 'H', // ping
		'a': 'A', // angle mode
		'C': 'C', // continuous mode
	})

	h := NewHandshake(port)
	h.SetSettleDelay(0)

	require.NoError(t, h.Run())
	assert.Equal(t, Ready, h.State())
	assert.Equal(t, []byte{'P', 'R', 'a', 'C'}, port.WrittenData())
	assert.Equal(t, 1, port.ResetCalls, "pending input should be purged once")
}

func TestHandshakeMismatchedPingFails(t *testing.T) {
	port := serialport.NewScriptedPort(nil)
	port.Responder = deviceResponder(map[byte]byte{
		'R': 'X', // wrong ping response
		'a': 'A',
		'C': 'C',
	})

	h := NewHandshake(port)
	h.SetSettleDelay(0)

	err := h.Run()
	require.Error(t, err)
	assert.Equal(t, Failed, h.State())
	// No commands after the failed step: the device is never asked to
	// change modes once the handshake is broken.
	assert.Equal(t, []byte{'P', 'R'}, port.WrittenData())
}

func TestHandshakeMismatchedModeFails(t *testing.T) {
	port := serialport.NewScriptedPort(nil)
	port.Responder = deviceResponder(map[byte]byte{
		'R': 'H',
		'a': 'R', // voltage-mode ack instead of angle-mode ack
	})

	h := NewHandshake(port)
	h.SetSettleDelay(0)

	require.Error(t, h.Run())
	assert.Equal(t, Failed, h.State())
	assert.Equal(t, []byte{'P', 'R', 'a'}, port.WrittenData())
}

func TestHandshakeSilentDeviceFails(t *testing.T) {
	// No responder: every response read hits end-of-stream.
	port := serialport.NewScriptedPort(nil)

	h := NewHandshake(port)
	h.SetSettleDelay(0)

	require.Error(t, h.Run())
	assert.Equal(t, Failed, h.State())
}

func TestHandshakeRunsOnlyOnce(t *testing.T) {
	port := serialport.NewScriptedPort(nil)
	port.Responder = deviceResponder(map[byte]byte{'R': 'H', 'a': 'A', 'C': 'C'})

	h := NewHandshake(port)
	h.SetSettleDelay(0)

	require.NoError(t, h.Run())
	assert.Error(t, h.Run(), "second Run must be rejected")
}
