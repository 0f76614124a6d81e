// Command vcmdas1-read periodically scans the sixteen analog channels of a
// Versalogic VCM-DAS-1 acquisition board and fans each scan out to the
// configured outputs: a tab-separated text log, a binary message transcript,
// UDP telemetry and the sample database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marioney/fdas3/internal/monitoring"
	"github.com/marioney/fdas3/internal/output"
	"github.com/marioney/fdas3/internal/session"
	"github.com/marioney/fdas3/internal/telemetrydb"
	"github.com/marioney/fdas3/internal/vcmdas1"
	"github.com/marioney/fdas3/internal/version"
)

var (
	baseAddr = flag.Uint("base", 0x3E0, "board base I/O address")
	interval = flag.Duration("interval", session.DefaultADCInterval, "time between scans")
	logTxt   = flag.String("logtxt", "", "write scans to this tab-separated text file")
	logBin   = flag.String("logbin", "", "write a binary message transcript to this file")
	useUDP   = flag.Bool("udp", false, "publish encoded messages over UDP")
	udpHost  = flag.String("udp-host", output.DefaultUDPHost, "UDP destination host")
	udpPort  = flag.Int("udp-port", output.DefaultUDPPort, "UDP destination port")
	dbFile   = flag.String("db", "", "store samples in this SQLite database file")
	verbose  = flag.Bool("verbose", false, "log acquisition statistics")
)

func main() {
	flag.Parse()
	monitoring.Logf("vcmdas1-read %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("vcmdas1-read: %v", err)
	}
}

func run(ctx context.Context) error {
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
		txt, err := output.NewTextSink("textlog", f, output.ADCTextHeader)
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

	bus, err := vcmdas1.OpenDevPort(uint16(*baseAddr))
	if err != nil {
		return err
	}
	defer bus.Close()

	board := vcmdas1.NewBoard(bus)
	if err := board.Init(); err != nil {
		return err
	}

	sess := session.NewADCSession(board, sinks, *interval)
	if db != nil {
		sinks.Add(output.NewStoreSink("store", db, sess.ID()))
	}
	monitoring.Logf("vcmdas1-read: session %s scanning at base %#x every %v", sess.ID(), *baseAddr, *interval)

	err = sess.Run(ctx)
	if *verbose {
		monitoring.Logf("vcmdas1-read: %d scans, %d sink errors", sess.Samples(), sinks.Errors())
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return context.Canceled
	}
	return err
}
