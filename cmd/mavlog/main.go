// Command mavlog records a live MAVLink serial stream to a binary
// transcript. Each validated frame is written with the host timestamp at
// which it was recovered, so the transcript can be replayed with original
// timing.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marioney/fdas3/internal/mavlink"
	"github.com/marioney/fdas3/internal/monitoring"
	"github.com/marioney/fdas3/internal/output"
	"github.com/marioney/fdas3/internal/serialport"
)

var (
	portPath = flag.String("port", "/dev/ttyS0", "serial device carrying the MAVLink stream")
	baudRate = flag.Int("baud", 38400, "serial baud rate")
	outFile  = flag.String("logbin", "mavlog.bin", "transcript output file")
	verbose  = flag.Bool("verbose", false, "log capture statistics")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("mavlog: %v", err)
	}
}

func run(ctx context.Context) error {
	f, err := os.Create(*outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	sink := output.NewTranscriptSink("binlog", f)

	mode, err := serialport.Options{BaudRate: *baudRate}.Mode()
	if err != nil {
		return err
	}
	port, err := serialport.RealFactory{}.Open(*portPath, mode)
	if err != nil {
		return err
	}
	defer port.Close()

	go func() {
		<-ctx.Done()
		port.Close()
	}()

	dec := mavlink.NewDecoder(port)
	var frames uint64
	for {
		pkt, err := dec.Next()
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			if *verbose {
				monitoring.Logf("mavlog: %d frames captured", frames)
			}
			return err
		}
		if err := sink.Emit(output.Record{Time: time.Now(), Encoded: pkt.Raw}); err != nil {
			return err
		}
		frames++
	}
}
