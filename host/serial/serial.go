// Package serial carries pipeline log lines over a serial port.
package serial

import (
	"io"
	"sync"
)

// Port represents a serial port interface. The native implementation
// uses github.com/tarm/serial; tests use an in-memory port.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; USB CDC ignores it
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig matches the console UART of an nRF52 development kit.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// LineWriter writes one log line per call, CRLF terminated, the way a
// terminal attached to the board's console expects.
type LineWriter struct {
	mu     sync.Mutex
	port   Port
	buf    []byte
	errors int
	last   error
}

func NewLineWriter(port Port) *LineWriter {
	return &LineWriter{port: port}
}

// WriteLine has the core.LogWriter signature. The line and its CRLF go
// out in a single port write; write errors are counted rather than
// returned.
func (w *LineWriter) WriteLine(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(append(w.buf[:0], line...), '\r', '\n')
	if _, err := w.port.Write(w.buf); err != nil {
		w.errors++
		w.last = err
	}
}

// Err returns the number of failed writes and the last error.
func (w *LineWriter) Err() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors, w.last
}

// Close flushes and closes the port.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.port.Flush(); err != nil {
		w.port.Close()
		return err
	}
	return w.port.Close()
}
