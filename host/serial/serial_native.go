//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation.
type NativePort struct {
	port *serial.Port
}

// Open opens a native serial port with the given configuration.
func Open(cfg *Config) (Port, error) {
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &NativePort{port: p}, nil
}

func (p *NativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *NativePort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *NativePort) Close() error                { return p.port.Close() }

// Flush discards any buffered input and output.
func (p *NativePort) Flush() error { return p.port.Flush() }
