package output

import (
	"fmt"
	"net"
)

// Default telemetry destination: link-local multicast on the port matching
// the sensor's serial baud rate, as configured across the fleet.
const (
	DefaultUDPHost = "224.0.0.1"
	DefaultUDPPort = 38400
)

// UDPSink publishes encoded message bytes as unacknowledged datagrams.
// There is no retry, no flow control and no delivery guarantee; a consumer
// that needs reliability replays the binary transcript instead.
type UDPSink struct {
	name string
	conn *net.UDPConn
}

// NewUDPSink resolves the destination and opens the socket. An
// unresolvable destination is a configuration error and fails here, before
// any device I/O starts.
func NewUDPSink(name, host string, port int) (*UDPSink, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("resolving telemetry destination %s:%d: %w", host, port, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry socket: %w", err)
	}

	return &UDPSink{name: name, conn: conn}, nil
}

func (s *UDPSink) Name() string { return s.name }

// Emit sends the record's encoded bytes as one datagram. Records without
// encoded bytes are skipped.
func (s *UDPSink) Emit(rec Record) error {
	if len(rec.Encoded) == 0 {
		return nil
	}
	if _, err := s.conn.Write(rec.Encoded); err != nil {
		return fmt.Errorf("sending telemetry datagram: %w", err)
	}
	return nil
}

// Close releases the socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}
