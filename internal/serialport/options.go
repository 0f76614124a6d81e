package serialport

import (
	"fmt"
	"strings"
)

// Options describes the serial connection parameters used when opening a real
// port. The fields mirror the command-line surface of the reader binaries so
// they can be passed through without additional translation.
type Options struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// Normalize validates the options and applies defaults for any unset values.
func (o Options) Normalize() (Options, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = 38400
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	if parity == "" {
		parity = "N"
	}

	switch parity {
	case "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	opts.Parity = parity
	return opts, nil
}

// Mode converts the options into the Mode structure used when opening a port.
func (o Options) Mode() (*Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
	}

	switch opts.StopBits {
	case 1:
		mode.StopBits = OneStopBit
	case 2:
		mode.StopBits = TwoStopBits
	}

	switch opts.Parity {
	case "N":
		mode.Parity = NoParity
	case "E":
		mode.Parity = EvenParity
	case "O":
		mode.Parity = OddParity
	}

	return mode, nil
}
