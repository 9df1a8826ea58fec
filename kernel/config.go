package kernel

import (
	"fmt"
	"os"
	"strconv"
)

// Default sizing for a Config loaded without environment overrides.
const (
	DefaultArenaSize        = 64 * 1024
	DefaultServiceCapacity  = 64
	DefaultSerialBaud       = 115200
	DefaultSerialReadTimeMS = 1000
)

// Config bundles the handful of knobs a running kernel-side dispatcher
// needs: how much arena memory to give each RPC, how many services to
// expect, and (if a serial link is used) the port to open. There is no
// schema negotiation or versioning here -- spec.md explicitly scopes that
// out -- this is just process wiring, in the same plain-struct-plus-
// constructor style the teacher uses for vmc.NewUDPServer.
type Config struct {
	// ArenaSize is the byte capacity of the per-RPC alloc.Arena handed to
	// NewDispatcher.
	ArenaSize int
	// ServiceCapacity is a hint for how many entries to expect in a
	// ServiceTable; it is not currently enforced, kept for parity with
	// the teacher's buffer-size constants (BufSizeMaxMTU etc.) that
	// document a choice without hard-coding it.
	ServiceCapacity int
	// SerialPort, if non-empty, names the device node a SerialTransport
	// should open (e.g. "/dev/ttyUSB0").
	SerialPort string
	// SerialBaud is the baud rate for SerialPort.
	SerialBaud int
}

// DefaultConfig returns a Config with the package's default sizing and no
// serial port configured.
func DefaultConfig() Config {
	return Config{
		ArenaSize:       DefaultArenaSize,
		ServiceCapacity: DefaultServiceCapacity,
		SerialBaud:      DefaultSerialBaud,
	}
}

// FromEnv overlays environment variables onto DefaultConfig():
// KERNRPC_ARENA_SIZE, KERNRPC_SERVICE_CAPACITY, KERNRPC_SERIAL_PORT,
// KERNRPC_SERIAL_BAUD. Any variable that is unset is left at its default;
// a malformed numeric value is reported as an error rather than silently
// ignored.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("KERNRPC_ARENA_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("kernel: KERNRPC_ARENA_SIZE: %w", err)
		}
		cfg.ArenaSize = n
	}
	if v := os.Getenv("KERNRPC_SERVICE_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("kernel: KERNRPC_SERVICE_CAPACITY: %w", err)
		}
		cfg.ServiceCapacity = n
	}
	if v := os.Getenv("KERNRPC_SERIAL_BAUD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("kernel: KERNRPC_SERIAL_BAUD: %w", err)
		}
		cfg.SerialBaud = n
	}
	cfg.SerialPort = os.Getenv("KERNRPC_SERIAL_PORT")

	return cfg, nil
}
