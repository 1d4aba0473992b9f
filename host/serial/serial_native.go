//go:build !wasm

package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is a log sink on a host serial device, backed by tarm/serial.
type NativePort struct {
	port   *serial.Port
	device string
	baud   int
}

// Open opens cfg.Device for log output at 8N1. Zero Baud and ReadTimeout
// take the DefaultConfig values.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errors.New("log port: nil config")
	}
	if cfg.Device == "" {
		return nil, errors.New("log port: no device")
	}
	def := DefaultConfig(cfg.Device)
	baud := cfg.Baud
	if baud <= 0 {
		baud = def.Baud
	}
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = def.ReadTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		ReadTimeout: time.Duration(timeout) * time.Millisecond,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("log port %s at %d baud: %w", cfg.Device, baud, err)
	}
	return &NativePort{port: port, device: cfg.Device, baud: baud}, nil
}

// String names the device and rate for log lines.
func (p *NativePort) String() string {
	return fmt.Sprintf("%s@%d", p.device, p.baud)
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	n, err := p.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("log port %s: %w", p.device, err)
	}
	return n, nil
}

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// Flush is a no-op. tarm/serial's Flush discards pending output, and log
// lines must reach the terminal.
func (p *NativePort) Flush() error {
	return nil
}
