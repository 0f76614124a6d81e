// Command log-report summarises a binary message transcript: it prints
// per-channel statistics of the converted attitude samples and renders an
// HTML page charting orientation over time.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/marioney/fdas3/internal/mavlink"
	"github.com/marioney/fdas3/internal/output"
)

var (
	inFile  = flag.String("in", "", "transcript file to analyse (required)")
	outFile = flag.String("out", "", "HTML report output (default: input with .html suffix)")
)

// attitudePoint is one converted sample extracted from the transcript.
type attitudePoint struct {
	when             time.Time
	roll, pitch, yaw float64
	temperature      float64
}

func main() {
	flag.Parse()
	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *outFile == "" {
		*outFile = *inFile + ".html"
	}

	points, err := collect(*inFile)
	if err != nil {
		log.Fatalf("log-report: %v", err)
	}
	if len(points) == 0 {
		log.Fatalf("log-report: no attitude samples in %s", *inFile)
	}

	printSummary(points)

	if err := render(*outFile, points); err != nil {
		log.Fatalf("log-report: %v", err)
	}
	log.Printf("log-report: wrote %s (%d samples)", *outFile, len(points))
}

// collect extracts converted attitude samples from a transcript, skipping
// raw-counts and board messages.
func collect(path string) ([]attitudePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []attitudePoint
	rd := output.NewTranscriptReader(f)
	for {
		ts, msg, err := rd.Next()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return points, fmt.Errorf("transcript record %d: %w", len(points)+1, err)
		}

		pkt, err := mavlink.NewDecoder(bytes.NewReader(msg)).Next()
		if err != nil {
			continue // unknown or damaged message, keep going
		}
		if pkt.MsgID != mavlink.MsgIDAHRS400Angle {
			continue
		}

		// Payload layout: time_usec, then fourteen little-endian floats
		// with roll/pitch/yaw at positions 9..11.
		field := func(i int) float64 {
			bits := binary.LittleEndian.Uint32(pkt.Payload[8+4*i:])
			return float64(math.Float32frombits(bits))
		}
		points = append(points, attitudePoint{
			when:        ts,
			roll:        field(9),
			pitch:       field(10),
			yaw:         field(11),
			temperature: field(12),
		})
	}
}

func printSummary(points []attitudePoint) {
	series := map[string][]float64{
		"roll":        nil,
		"pitch":       nil,
		"yaw":         nil,
		"temperature": nil,
	}
	for _, p := range points {
		series["roll"] = append(series["roll"], p.roll)
		series["pitch"] = append(series["pitch"], p.pitch)
		series["yaw"] = append(series["yaw"], p.yaw)
		series["temperature"] = append(series["temperature"], p.temperature)
	}

	span := points[len(points)-1].when.Sub(points[0].when)
	fmt.Printf("samples: %d over %v\n", len(points), span.Round(time.Millisecond))
	for _, name := range []string{"roll", "pitch", "yaw", "temperature"} {
		vals := series[name]
		mean, std := stat.MeanStdDev(vals, nil)
		fmt.Printf("%-12s mean %10.5f  stddev %10.5f  min %10.5f  max %10.5f\n",
			name, mean, std, floats.Min(vals), floats.Max(vals))
	}
}

// render writes an HTML page with one orientation chart.
func render(path string, points []attitudePoint) error {
	var labels []string
	roll := make([]opts.LineData, 0, len(points))
	pitch := make([]opts.LineData, 0, len(points))
	yaw := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.when.Format("15:04:05.000"))
		roll = append(roll, opts.LineData{Value: p.roll})
		pitch = append(pitch, opts.LineData{Value: p.pitch})
		yaw = append(yaw, opts.LineData{Value: p.yaw})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Attitude Log", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Orientation", Subtitle: fmt.Sprintf("%d samples", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "rad"}),
	)
	line.SetXAxis(labels).
		AddSeries("roll", roll).
		AddSeries("pitch", pitch).
		AddSeries("yaw", yaw)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}
