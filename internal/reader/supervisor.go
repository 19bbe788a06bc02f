// internal/reader/supervisor.go
package reader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"attendance-service/internal/config"
	"attendance-service/internal/model"
	"attendance-service/internal/utils"
)

// PublishFunc receives each accepted scan event from the ingestion loop
type PublishFunc func(event model.ScanEvent)

// frameConn is the connection surface the supervisor drives. Satisfied
// by *Connection.
type frameConn interface {
	ReadFrame() ([]byte, error)
	Close()
	IsOpen() bool
}

// Supervisor drives the scan-ingestion loop: it discovers and opens the
// reader, reads frames, decodes and debounces them, and forwards accepted
// scans. It is the sole owner of the serial handle; operator commands
// (manual port selection) reach the loop as messages, never as direct
// mutation.
type Supervisor struct {
	cfg        *config.ReaderConfig
	baseLogger *zap.Logger
	logger     *zap.Logger
	publish    PublishFunc

	conn      frameConn
	scanLog   *utils.ReaderLogger
	decoder   Decoder
	debouncer *Debouncer
	retryAt   time.Time

	portRequests chan portRequest
	simCancel    context.CancelFunc

	// Discovery and port-open hooks, replaced in tests
	listPorts func(logger *zap.Logger) []model.SerialPortInfo
	probePort func(cfg *config.ReaderConfig, path string) bool
	openPort  func(path string) (frameConn, error)
	usbHint   func(logger *zap.Logger) []string

	mu     sync.RWMutex
	status model.ReaderStatus
}

type portRequest struct {
	path  string
	reply chan error
}

// NewSupervisor creates an ingestion supervisor. Run must be started on
// its own goroutine before scans flow.
func NewSupervisor(cfg *config.ReaderConfig, publish PublishFunc, logger *zap.Logger) *Supervisor {
	s := &Supervisor{
		cfg:          cfg,
		baseLogger:   logger,
		logger:       logger.With(zap.String("component", "reader-supervisor")),
		publish:      publish,
		decoder:      Decoder{MinLength: cfg.MinCardLength},
		debouncer:    NewDebouncer(cfg.DebounceWindow),
		portRequests: make(chan portRequest),
		listPorts:    ListPorts,
		probePort:    ProbePort,
		usbHint:      DetectUSBAdapters,
	}
	s.openPort = func(path string) (frameConn, error) {
		conn := NewConnection(s.cfg, path, s.baseLogger)
		if err := conn.Open(); err != nil {
			return nil, err
		}
		return conn, nil
	}
	return s
}

// Run executes the ingestion loop until the context is cancelled. The
// serial handle is released before returning.
func (s *Supervisor) Run(ctx context.Context) {
	s.logger.Info("Reader supervisor started")
	defer s.logger.Info("Reader supervisor stopped")
	defer s.closeConnection()

	// Initial hardware attach; total failure degrades to simulation
	// rather than stopping the process.
	if err := s.connect(); err != nil {
		s.fallbackToSimulation(ctx, err)
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.portRequests:
			req.reply <- s.handleManualPort(req.path)
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Status returns a snapshot of the connection state
func (s *Supervisor) Status() model.ReaderStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetManualPort forces the loop to reopen on a specific device path,
// bypassing candidate selection. A successful manual attach also leaves
// simulation mode.
func (s *Supervisor) SetManualPort(ctx context.Context, path string) error {
	req := portRequest{path: path, reply: make(chan error, 1)}

	select {
	case s.portRequests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick performs one iteration of the ingestion loop
func (s *Supervisor) tick(ctx context.Context) {
	if s.simCancel != nil {
		// The simulator goroutine produces events on its own cadence.
		return
	}

	if s.conn == nil || !s.conn.IsOpen() {
		if time.Now().Before(s.retryAt) {
			return
		}
		if err := s.connect(); err != nil {
			s.fallbackToSimulation(ctx, err)
		}
		return
	}

	frame, err := s.conn.ReadFrame()
	if err != nil {
		s.logger.Error("Reader read failed, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", s.cfg.ReconnectDelay),
		)
		s.closeConnection()
		s.retryAt = time.Now().Add(s.cfg.ReconnectDelay)
		s.setStatus(model.ReaderStatus{})
		return
	}
	if frame == nil {
		return
	}

	cardID := s.decoder.Decode(frame)
	if cardID == "" {
		s.logger.Debug("Discarded noise frame", zap.Int("frame_bytes", len(frame)))
		return
	}

	now := time.Now()
	if !s.debouncer.Accept(cardID, now) {
		s.logger.Debug("Debounced repeated scan", zap.String("card_id", cardID))
		return
	}

	if s.scanLog != nil {
		s.scanLog.LogScan(cardID, false)
	}
	s.publish(model.NewScanEvent(cardID, now, false))
}

// connect selects a candidate port and opens it
func (s *Supervisor) connect() error {
	target := s.selectCandidate()
	if target == "" {
		return model.ErrNoHardwareFound
	}

	conn, err := s.openPort(target)
	if err != nil {
		return err
	}

	s.conn = conn
	s.scanLog = utils.NewReaderLogger(s.baseLogger, target)
	s.debouncer = NewDebouncer(s.cfg.DebounceWindow)
	s.setStatus(model.ReaderStatus{Connected: true, Port: target})
	return nil
}

// selectCandidate applies the candidate-selection policy: first keyword
// match over discovered port descriptions, then the fixed probe list.
func (s *Supervisor) selectCandidate() string {
	ports := s.listPorts(s.baseLogger)

	if target := MatchByKeyword(ports, s.cfg.Keywords); target != "" {
		s.logger.Info("Potential card reader found", zap.String("device", target))
		return target
	}

	for _, path := range s.cfg.ProbePorts {
		if s.probePort(s.cfg, path) {
			s.logger.Info("Well-known port available", zap.String("device", path))
			return path
		}
	}

	return ""
}

// fallbackToSimulation switches the loop to the synthetic scan generator.
// The switch lasts for the process lifetime unless a manual port attach
// succeeds.
func (s *Supervisor) fallbackToSimulation(ctx context.Context, cause error) {
	if s.simCancel != nil {
		return
	}

	s.logger.Warn("No reader hardware found, switching to simulation", zap.Error(cause))

	// A known USB-serial bridge on the bus means hardware is attached but
	// the port was not identifiable; worth surfacing to the operator.
	s.usbHint(s.logger)

	simCtx, cancel := context.WithCancel(ctx)
	s.simCancel = cancel
	s.setStatus(model.ReaderStatus{Simulated: true})

	sim := NewSimulator(s.cfg.SimulatorCards, s.cfg.SimulatorInterval, s.logger)
	go sim.Run(simCtx, func(cardID string) {
		s.publish(model.NewScanEvent(cardID, time.Now(), true))
	})
}

// handleManualPort services a manual port request inside the loop
func (s *Supervisor) handleManualPort(path string) error {
	s.closeConnection()

	conn, err := s.openPort(path)
	if err != nil {
		if s.simCancel == nil {
			s.setStatus(model.ReaderStatus{})
		}
		return err
	}

	if s.simCancel != nil {
		s.simCancel()
		s.simCancel = nil
	}

	s.conn = conn
	s.scanLog = utils.NewReaderLogger(s.baseLogger, path)
	s.debouncer = NewDebouncer(s.cfg.DebounceWindow)
	s.retryAt = time.Time{}
	s.setStatus(model.ReaderStatus{Connected: true, Port: path})
	s.logger.Info("Manual port attached", zap.String("device", path))
	return nil
}

func (s *Supervisor) closeConnection() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Supervisor) setStatus(status model.ReaderStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}
