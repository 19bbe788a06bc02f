// internal/reader/connection.go
package reader

import (
	"bytes"
	"fmt"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"attendance-service/internal/config"
	"attendance-service/internal/model"
	"attendance-service/internal/utils"
)

// maxPendingBytes bounds the line-reassembly buffer for readers that
// never send a terminator.
const maxPendingBytes = 256

// Connection owns a single open serial handle. It is used exclusively by
// the ingestion loop, so no locking is needed on the handle itself.
type Connection struct {
	cfg     *config.ReaderConfig
	logger  *utils.ReaderLogger
	port    serial.Port
	name    string
	pending []byte
}

// NewConnection creates an unopened connection for the given device path
func NewConnection(cfg *config.ReaderConfig, path string, logger *zap.Logger) *Connection {
	return &Connection{
		cfg:    cfg,
		logger: utils.NewReaderLogger(logger, path),
		name:   path,
	}
}

// Open opens and configures the serial port: configured baud rate, eight
// data bits, no parity, one stop bit, and a short read timeout so the
// ingestion loop stays responsive to cancellation.
func (c *Connection) Open() error {
	if c.port != nil {
		return nil
	}

	c.logger.Info("Opening serial port",
		zap.Int("baud_rate", c.cfg.BaudRate),
	)

	mode := &serial.Mode{
		BaudRate: c.cfg.BaudRate,
		DataBits: c.cfg.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	if c.cfg.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch c.cfg.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	}

	port, err := serial.Open(c.name, mode)
	if err != nil {
		c.logger.LogConnection("open", false, err)
		return fmt.Errorf("%w: %s: %v", model.ErrPortUnavailable, c.name, err)
	}

	if err := port.SetReadTimeout(c.cfg.ReadTimeout); err != nil {
		port.Close()
		c.logger.LogConnection("open", false, err)
		return fmt.Errorf("%w: set read timeout on %s: %v", model.ErrPortUnavailable, c.name, err)
	}

	c.port = port
	c.pending = nil
	c.logger.LogConnection("open", true, nil)
	return nil
}

// Name returns the device path of the connection
func (c *Connection) Name() string {
	return c.name
}

// ReadFrame reads one line-delimited frame. It returns nil with no error
// when no complete frame is currently buffered; an error indicates a
// connection-level failure and the handle should be closed.
//
// EM-18 style readers emit fixed-length bursts that are not always
// newline-terminated, so a partial buffer is flushed as a frame once the
// port goes quiet for a read-timeout interval.
func (c *Connection) ReadFrame() ([]byte, error) {
	if c.port == nil {
		return nil, model.ErrPortUnavailable
	}

	buf := make([]byte, 64)
	n, err := c.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: read on %s: %v", model.ErrPortUnavailable, c.name, err)
	}

	if n > 0 {
		c.pending = append(c.pending, buf[:n]...)

		if i := bytes.IndexByte(c.pending, '\n'); i >= 0 {
			frame := make([]byte, i+1)
			copy(frame, c.pending[:i+1])
			c.pending = c.pending[i+1:]
			return frame, nil
		}

		if len(c.pending) >= maxPendingBytes {
			frame := c.pending
			c.pending = nil
			return frame, nil
		}

		return nil, nil
	}

	// Read timeout with no new data: flush whatever a burst left behind
	if len(c.pending) > 0 {
		frame := c.pending
		c.pending = nil
		return frame, nil
	}

	return nil, nil
}

// Close releases the OS handle. Safe to call on an already-closed
// connection.
func (c *Connection) Close() {
	if c.port == nil {
		return
	}

	err := c.port.Close()
	c.logger.LogConnection("close", err == nil, err)

	c.port = nil
	c.pending = nil
}

// IsOpen reports whether the connection currently holds an OS handle
func (c *Connection) IsOpen() bool {
	return c.port != nil
}

// ProbePort checks whether a device path can be opened at the configured
// mode, releasing it immediately. Used by candidate selection for the
// well-known path fallback list.
func ProbePort(cfg *config.ReaderConfig, path string) bool {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return false
	}
	port.Close()
	return true
}
