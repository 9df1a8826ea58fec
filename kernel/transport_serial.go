package kernel

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/embedded-rpc/kernrpc/wire"
)

// SerialTransport is a wire.Reader/wire.Writer backed by a physical
// serial port, the canonical host<->embedded-target link for a
// distributed control system's kernel side. It wraps a *wire.Stream over
// the opened port, so scalar framing and length-prefixed bytes/strings
// work exactly as they do over any other wire.Reader/Writer.
type SerialTransport struct {
	*wire.Stream
	port *serial.Port
}

// OpenSerialTransport opens name (e.g. "/dev/ttyUSB0") at baud, with a
// read timeout of readTimeout applied to every Read call on the
// underlying port, and wraps it as a SerialTransport.
func OpenSerialTransport(name string, baud int, readTimeout time.Duration) (*SerialTransport, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("kernel: opening serial port %q: %w", name, err)
	}

	return &SerialTransport{
		Stream: wire.NewStream(port, port),
		port:   port,
	}, nil
}

// Close releases the underlying serial port.
func (t *SerialTransport) Close() error {
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("kernel: closing serial port: %w", err)
	}
	return nil
}
