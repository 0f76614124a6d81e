package output

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestUDPSinkSendsDatagrams(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()
	port := listener.LocalAddr().(*net.UDPAddr).Port

	sink, err := NewUDPSink("udp", "127.0.0.1", port)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	payload := []byte{0xFE, 0x02, 0x00, 0x01, 0xC8, 0x96, 0xAA, 0xBB, 0x12, 0x34}
	if err := sink.Emit(Record{Time: time.Now(), Encoded: payload}); err != nil {
		t.Fatal(err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 512)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("received %x, want %x", buf[:n], payload)
	}
}

func TestUDPSinkSkipsRecordsWithoutBytes(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()
	port := listener.LocalAddr().(*net.UDPAddr).Port

	sink, err := NewUDPSink("udp", "127.0.0.1", port)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if err := sink.Emit(Record{Text: "text only"}); err != nil {
		t.Fatal(err)
	}
}

func TestUDPSinkUnresolvableHost(t *testing.T) {
	if _, err := NewUDPSink("udp", "no-such-host.invalid", 38400); err == nil {
		t.Fatal("expected resolution error for an invalid host")
	}
}
