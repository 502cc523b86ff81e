package serialmux

import (
	"go.bug.st/serial"
)

// Open opens the serial device at path and returns a feed over it. The
// telemetry receiver talks 8N1.
func Open(path string, baudRate int) (*Feed[serial.Port], error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}

	return NewFeed[serial.Port](port), nil
}
