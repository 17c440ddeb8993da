// Package serial abstracts the host-side serial link a tickos target
// streams its trace frames over.
package serial

import "io"

// Port is a host serial connection. The interface allows swapping the
// native implementation for a mock in tests.
type Port interface {
	io.ReadWriteCloser

	// Flush discards buffered but unwritten data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; USB CDC links ignore it
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the standard monitor configuration for a device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
