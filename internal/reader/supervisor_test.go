// internal/reader/supervisor_test.go
package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"attendance-service/internal/config"
	"attendance-service/internal/model"
)

type fakeConn struct {
	frames  [][]byte
	readErr error
	open    bool
	closed  bool
}

func (f *fakeConn) ReadFrame() ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.frames) == 0 {
		return nil, nil
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return frame, nil
}

func (f *fakeConn) Close() {
	f.open = false
	f.closed = true
}

func (f *fakeConn) IsOpen() bool {
	return f.open
}

func newTestReaderConfig() *config.ReaderConfig {
	return &config.ReaderConfig{
		BaudRate:          9600,
		PollInterval:      5 * time.Millisecond,
		ReconnectDelay:    5 * time.Second,
		DebounceWindow:    2 * time.Second,
		MinCardLength:     10,
		Keywords:          []string{"rfid"},
		SimulatorInterval: time.Hour,
		SimulatorCards:    []string{"1234567890"},
	}
}

func newTestSupervisor(publish PublishFunc) *Supervisor {
	if publish == nil {
		publish = func(model.ScanEvent) {}
	}
	s := NewSupervisor(newTestReaderConfig(), publish, zap.NewNop())
	s.listPorts = func(*zap.Logger) []model.SerialPortInfo { return nil }
	s.probePort = func(*config.ReaderConfig, string) bool { return false }
	s.usbHint = func(*zap.Logger) []string { return nil }
	return s
}

func TestTickFallsBackToSimulationWhenNoHardware(t *testing.T) {
	s := newTestSupervisor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.tick(ctx)

	status := s.Status()
	if !status.Simulated {
		t.Fatalf("expected simulated status after failed discovery, got %+v", status)
	}
	if status.Connected {
		t.Fatalf("simulation must not report a connected reader")
	}
	if s.simCancel == nil {
		t.Fatalf("simulation cancel func not retained")
	}
}

func TestTickOpenFailureFallsBackToSimulation(t *testing.T) {
	s := newTestSupervisor(nil)
	s.listPorts = func(*zap.Logger) []model.SerialPortInfo {
		return []model.SerialPortInfo{{Device: "/dev/ttyUSB0", Description: "USB RFID Reader"}}
	}
	s.openPort = func(path string) (frameConn, error) {
		return nil, errors.New("open /dev/ttyUSB0: permission denied")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.tick(ctx)

	status := s.Status()
	if !status.Simulated || status.Connected {
		t.Fatalf("expected simulation after open failure, got %+v", status)
	}
}

func TestTickReadFailureClosesConnectionAndSchedulesRetry(t *testing.T) {
	s := newTestSupervisor(nil)
	conn := &fakeConn{open: true, readErr: errors.New("read: device removed")}
	s.conn = conn
	s.setStatus(model.ReaderStatus{Connected: true, Port: "/dev/ttyUSB0"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := time.Now()
	s.tick(ctx)

	if !conn.closed {
		t.Fatalf("failed connection was not closed")
	}
	if s.conn != nil {
		t.Fatalf("connection reference not cleared after read failure")
	}
	if s.Status().Connected {
		t.Fatalf("status still reports connected after read failure")
	}
	wait := s.retryAt.Sub(before)
	if wait < 4*time.Second || wait > 6*time.Second {
		t.Fatalf("retry scheduled %v out, want about %v", wait, s.cfg.ReconnectDelay)
	}

	// No discovery attempt until the backoff elapses.
	discoveries := 0
	s.listPorts = func(*zap.Logger) []model.SerialPortInfo {
		discoveries++
		return nil
	}
	s.tick(ctx)
	if discoveries != 0 {
		t.Fatalf("reconnect attempted before retry deadline")
	}
	if s.Status().Simulated {
		t.Fatalf("backoff wait must not switch to simulation")
	}
}

func TestTickPublishesDecodedScanAndDebouncesRepeat(t *testing.T) {
	var events []model.ScanEvent
	s := newTestSupervisor(func(event model.ScanEvent) {
		events = append(events, event)
	})
	s.conn = &fakeConn{
		open:   true,
		frames: [][]byte{[]byte("1234567890\r\n"), []byte("1234567890\r\n")},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.tick(ctx)
	s.tick(ctx)

	if len(events) != 1 {
		t.Fatalf("got %d published events, want 1 after debounce", len(events))
	}
	if events[0].CardID != "1234567890" {
		t.Fatalf("published card %q, want 1234567890", events[0].CardID)
	}
	if events[0].Simulated {
		t.Fatalf("hardware scan marked simulated")
	}
}

func TestManualPortAttachCancelsSimulation(t *testing.T) {
	s := newTestSupervisor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.tick(ctx)
	if s.simCancel == nil {
		t.Fatalf("precondition: supervisor not in simulation")
	}

	opened := &fakeConn{open: true}
	s.openPort = func(path string) (frameConn, error) {
		if path != "/dev/ttyUSB3" {
			t.Fatalf("opened %q, want /dev/ttyUSB3", path)
		}
		return opened, nil
	}

	if err := s.handleManualPort("/dev/ttyUSB3"); err != nil {
		t.Fatalf("manual attach failed: %v", err)
	}
	if s.simCancel != nil {
		t.Fatalf("simulation not cancelled after manual attach")
	}
	status := s.Status()
	if !status.Connected || status.Simulated || status.Port != "/dev/ttyUSB3" {
		t.Fatalf("unexpected status after manual attach: %+v", status)
	}
	if s.scanLog == nil {
		t.Fatalf("scan logger not bound to the attached port")
	}
}

func TestManualPortOpenFailureKeepsSimulation(t *testing.T) {
	s := newTestSupervisor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.tick(ctx)

	s.openPort = func(path string) (frameConn, error) {
		return nil, errors.New("open /dev/ttyUSB9: no such device")
	}

	if err := s.handleManualPort("/dev/ttyUSB9"); err == nil {
		t.Fatalf("expected error from failed manual attach")
	}
	if s.simCancel == nil {
		t.Fatalf("failed manual attach must not leave simulation")
	}
	if !s.Status().Simulated {
		t.Fatalf("status lost simulated flag after failed manual attach")
	}
}

func TestSetManualPortThroughRunLoop(t *testing.T) {
	s := newTestSupervisor(nil)
	s.openPort = func(path string) (frameConn, error) {
		return &fakeConn{open: true}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	if err := s.SetManualPort(context.Background(), "/dev/ttyUSB5"); err != nil {
		t.Fatalf("SetManualPort: %v", err)
	}
	status := s.Status()
	if !status.Connected || status.Port != "/dev/ttyUSB5" {
		t.Fatalf("unexpected status after manual attach: %+v", status)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("supervisor did not stop on cancel")
	}
}
