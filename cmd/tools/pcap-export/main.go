// Command pcap-export converts a binary message transcript into a pcap
// capture. Each transcript record becomes one UDP datagram addressed to the
// telemetry multicast group, stamped with the record's capture time, so the
// stream can be inspected in Wireshark or replayed with standard pcap
// tooling.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/marioney/fdas3/internal/output"
)

var (
	inFile  = flag.String("in", "", "transcript file to convert (required)")
	outFile = flag.String("out", "", "pcap output file (default: input with .pcap suffix)")
	dstHost = flag.String("udp-host", output.DefaultUDPHost, "destination address written into the synthesised datagrams")
	dstPort = flag.Int("udp-port", output.DefaultUDPPort, "destination port written into the synthesised datagrams")
)

func main() {
	flag.Parse()
	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *outFile == "" {
		*outFile = *inFile + ".pcap"
	}

	n, err := export(*inFile, *outFile)
	if err != nil {
		log.Fatalf("pcap-export: %v", err)
	}
	log.Printf("pcap-export: wrote %d packets to %s", n, *outFile)
}

func export(in, out string) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	w := pcapgo.NewWriter(dst)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		return 0, fmt.Errorf("writing pcap header: %w", err)
	}

	dstIP := net.ParseIP(*dstHost)
	if dstIP == nil {
		return 0, fmt.Errorf("invalid destination address %q", *dstHost)
	}

	rd := output.NewTranscriptReader(src)
	count := 0
	for {
		ts, msg, err := rd.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("transcript record %d: %w", count+1, err)
		}

		data, err := buildDatagram(dstIP, uint16(*dstPort), msg)
		if err != nil {
			return count, err
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     ts,
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := w.WritePacket(ci, data); err != nil {
			return count, fmt.Errorf("writing packet at %s: %w", ts.Format(time.RFC3339Nano), err)
		}
		count++
	}
}

// buildDatagram wraps one encoded message in Ethernet/IPv4/UDP framing.
func buildDatagram(dstIP net.IP, dstPort uint16, payload []byte) ([]byte, error) {
	eth := layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		TTL:      1,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(10, 0, 0, 1),
		DstIP:    dstIP,
	}
	udp := layers.UDP{
		SrcPort: layers.UDPPort(dstPort),
		DstPort: layers.UDPPort(dstPort),
	}
	if err := udp.SetNetworkLayerForChecksum(&ip); err != nil {
		return nil, err
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &ip, &udp, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("serialising datagram: %w", err)
	}
	return buf.Bytes(), nil
}
