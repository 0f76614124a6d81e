// Command ahrs400-read acquires angle-mode frames from a Crossbow AHRS400
// attitude sensor on a serial port and fans each sample out to the
// configured outputs: a tab-separated text log, a binary transcript, UDP
// telemetry and the sample database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/monitoring"
	"github.com/marioney/fdas3/internal/output"
	"github.com/marioney/fdas3/internal/serialport"
	"github.com/marioney/fdas3/internal/session"
	"github.com/marioney/fdas3/internal/telemetrydb"
	"github.com/marioney/fdas3/internal/version"
)

var (
	portPath = flag.String("port", "/dev/ttyS0", "serial device of the attitude sensor")
	baudRate = flag.Int("baud", 38400, "serial baud rate")
	logTxt   = flag.String("logtxt", "", "write converted samples to this tab-separated text file")
	logBin   = flag.String("logbin", "", "write a binary message transcript to this file")
	useUDP   = flag.Bool("udp", false, "publish encoded messages over UDP")
	udpHost  = flag.String("udp-host", output.DefaultUDPHost, "UDP destination host")
	udpPort  = flag.Int("udp-port", output.DefaultUDPPort, "UDP destination port")
	dbFile   = flag.String("db", "", "store samples in this SQLite database file")
	verbose  = flag.Bool("verbose", false, "log acquisition statistics")
)

func main() {
	flag.Parse()
	monitoring.Logf("ahrs400-read %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("ahrs400-read: %v", err)
	}
}

func run(ctx context.Context) error {
	// All outputs open before any device I/O so that a configuration
	// mistake fails fast instead of mid-acquisition.
	sinks := output.NewSinkSet()
	defer sinks.Close()

	var db *telemetrydb.DB
	if *dbFile != "" {
		var err error
		db, err = telemetrydb.Open(*dbFile)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	if *logTxt != "" {
		f, err := os.Create(*logTxt)
		if err != nil {
			return err
		}
		defer f.Close()
		txt, err := output.NewTextSink("textlog", f, output.AngleTextHeader)
		if err != nil {
			return err
		}
		sinks.Add(txt)
	}

	if *logBin != "" {
		f, err := os.Create(*logBin)
		if err != nil {
			return err
		}
		defer f.Close()
		sinks.Add(output.NewTranscriptSink("binlog", f))
	}

	if *useUDP {
		udp, err := output.NewUDPSink("udp", *udpHost, *udpPort)
		if err != nil {
			return err
		}
		sinks.Add(udp)
	}

	mode, err := serialport.Options{BaudRate: *baudRate}.Mode()
	if err != nil {
		return err
	}
	port, err := serialport.RealFactory{}.Open(*portPath, mode)
	if err != nil {
		return err
	}
	defer port.Close()

	hs := ahrs400.NewHandshake(port)
	if err := hs.Run(); err != nil {
		return err
	}
	monitoring.Logf("ahrs400-read: sensor in continuous angle mode on %s", *portPath)

	sess := session.NewAngleSession(port, sinks)
	if db != nil {
		sinks.Add(output.NewStoreSink("store", db, sess.ID()))
	}
	monitoring.Logf("ahrs400-read: session %s started", sess.ID())

	// A blocked serial read does not notice context cancellation; closing
	// the port from the side forces it to return.
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	err = sess.Run(ctx)
	if *verbose {
		monitoring.Logf("ahrs400-read: %d samples, %d resyncs, %d sink errors",
			sess.Samples(), sess.Resyncs(), sinks.Errors())
	}
	return err
}
