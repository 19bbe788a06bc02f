// internal/broadcast/broadcaster.go
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendance-service/internal/model"
)

// SessionSink receives scans routed by the active scan mode
type SessionSink interface {
	SubmitScan(ctx context.Context, cardID string) (*model.ScanResult, error)
	StartLecture(ctx context.Context, teacherCardID string) (*model.LectureStart, error)
}

// ScanNotice is what subscribers and pollers observe for each accepted scan
type ScanNotice struct {
	Event  model.ScanEvent   `json:"event"`
	Mode   model.ScanMode    `json:"mode"`
	Result *model.ScanResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Broadcaster routes accepted scans according to the current scan mode and
// fans every scan out to feed subscribers. The supervisor publishes into
// it from the reader goroutine; handlers flip the mode and poll the most
// recent scan.
type Broadcaster struct {
	session SessionSink
	logger  *zap.Logger

	mu          sync.Mutex
	mode        model.ScanMode
	last        *ScanNotice
	subscribers map[string]chan ScanNotice
}

func NewBroadcaster(session SessionSink, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		session:     session,
		logger:      logger.With(zap.String("component", "broadcast")),
		mode:        model.ScanModeNone,
		subscribers: make(map[string]chan ScanNotice),
	}
}

// SetMode switches scan routing. Returns the previous mode.
func (b *Broadcaster) SetMode(mode model.ScanMode) model.ScanMode {
	b.mu.Lock()
	previous := b.mode
	b.mode = mode
	b.mu.Unlock()

	if previous != mode {
		b.logger.Info("Scan mode changed",
			zap.String("from", string(previous)),
			zap.String("to", string(mode)),
		)
	}
	return previous
}

// Mode returns the current scan mode
func (b *Broadcaster) Mode() model.ScanMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Publish routes one accepted scan. Called from the reader goroutine, so
// session calls happen here rather than in a request handler.
func (b *Broadcaster) Publish(ctx context.Context, event model.ScanEvent) {
	b.mu.Lock()
	mode := b.mode
	b.mu.Unlock()

	notice := ScanNotice{Event: event, Mode: mode}

	switch mode {
	case model.ScanModeAttendance:
		result, err := b.session.SubmitScan(ctx, event.CardID)
		if err != nil {
			notice.Error = err.Error()
			b.logger.Warn("Scan rejected",
				zap.String("card_id", event.CardID),
				zap.Error(err),
			)
		} else {
			notice.Result = result
		}

	case model.ScanModeStartAttendance:
		result, err := b.session.StartLecture(ctx, event.CardID)
		if err != nil {
			notice.Error = err.Error()
			b.logger.Warn("Lecture start rejected",
				zap.String("card_id", event.CardID),
				zap.Error(err),
			)
		} else {
			notice.Result = &model.ScanResult{
				Action:      "start_lecture",
				Name:        result.TeacherName,
				Role:        model.RoleTeacher,
				Subject:     result.Subject,
				LectureSlot: result.LectureSlot,
			}
			// Teacher scanned in: subsequent scans mark attendance
			b.SetMode(model.ScanModeAttendance)
			b.logger.Info("Lecture started from scan",
				zap.String("subject", result.Subject),
				zap.Int("lecture_slot", result.LectureSlot),
			)
		}

	case model.ScanModeRegistration, model.ScanModeNone:
		// Observation only; pollers and feed subscribers pick the card up
		b.logger.Debug("Scan observed",
			zap.String("card_id", event.CardID),
			zap.String("mode", string(mode)),
		)
	}

	b.mu.Lock()
	b.last = &notice
	b.mu.Unlock()

	b.fanout(notice)
}

// PollLast returns the most recent scan notice and clears it, so every
// scan is handed to at most one poller
func (b *Broadcaster) PollLast() (*ScanNotice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return nil, false
	}
	notice := b.last
	b.last = nil
	return notice, true
}

// Subscribe registers a feed subscriber. The returned channel is buffered;
// slow subscribers lose notices instead of stalling the reader loop.
func (b *Broadcaster) Subscribe() (string, <-chan ScanNotice) {
	id := uuid.New().String()
	ch := make(chan ScanNotice, 16)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	b.logger.Debug("Feed subscriber added", zap.String("subscriber_id", id))
	return id, ch
}

// Unsubscribe removes a feed subscriber and closes its channel
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
		b.logger.Debug("Feed subscriber removed", zap.String("subscriber_id", id))
	}
}

func (b *Broadcaster) fanout(notice ScanNotice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- notice:
		default:
			b.logger.Debug("Feed subscriber lagging, notice dropped",
				zap.String("subscriber_id", id))
		}
	}
}
