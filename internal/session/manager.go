// internal/session/manager.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"attendance-service/internal/lecture"
	"attendance-service/internal/model"
	"attendance-service/internal/registry"
	"attendance-service/internal/sink"
)

// Manager is the session state machine. It is the only component allowed
// to mutate the lecture session; scans from the ingestion loop and
// operator commands from request handlers are serialized on one mutex.
//
// Sink writes are slow external calls and are never made while the mutex
// is held: each transition validates and copies under the lock, releases
// it for the write, then re-acquires to apply the transition with a
// state recheck.
type Manager struct {
	registry *registry.Store
	schedule *lecture.Schedule
	writer   sink.RecordWriter
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	session model.Session
}

// NewManager creates a session manager in the idle state
func NewManager(reg *registry.Store, schedule *lecture.Schedule, writer sink.RecordWriter, logger *zap.Logger) *Manager {
	return &Manager{
		registry: reg,
		schedule: schedule,
		writer:   writer,
		logger:   logger.With(zap.String("component", "session")),
		now:      time.Now,
	}
}

// StartLecture transitions Idle -> Active for a registered teacher during
// an active lecture slot. The session stays idle on any failure.
func (m *Manager) StartLecture(ctx context.Context, teacherCardID string) (*model.LectureStart, error) {
	if m.registry.Count() == 0 {
		return nil, fmt.Errorf("%w: load users first", model.ErrRegistryEmpty)
	}

	now := m.now()

	m.mu.Lock()
	if m.session.Active {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: lecture already in progress", model.ErrInvalidSessionState)
	}

	slot, ok := m.schedule.CurrentSlot(now)
	if !ok {
		m.mu.Unlock()
		return nil, model.ErrNoActiveSlot
	}

	teacher, found := m.registry.Lookup(teacherCardID)
	if !found || teacher.Role != model.RoleTeacher {
		m.mu.Unlock()
		return nil, model.ErrInvalidTeacherCard
	}
	m.mu.Unlock()

	// Sink write with the lock released; the start record is advisory and
	// a failed write does not block the lecture.
	record := model.AttendanceRecord{
		Role:        model.RoleTeacher,
		CardID:      teacherCardID,
		Name:        teacher.Name,
		Subject:     teacher.Subject,
		Time:        now.Format("15:04:05"),
		Date:        now.Format("2006-01-02"),
		Status:      fmt.Sprintf("Lecture Started - Slot %d", slot.ID),
		LectureSlot: slot.ID,
	}
	if err := m.writer.WriteRecord(ctx, record); err != nil {
		m.logger.Warn("Lecture start record not written", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Active {
		// Lost the race against a concurrent start
		return nil, fmt.Errorf("%w: lecture already in progress", model.ErrInvalidSessionState)
	}
	m.session = model.Session{
		Active:        true,
		Subject:       teacher.Subject,
		TeacherCardID: teacherCardID,
	}

	m.logger.Info("Lecture started",
		zap.String("teacher_card_id", teacherCardID),
		zap.String("subject", teacher.Subject),
		zap.Int("lecture_slot", slot.ID),
	)

	return &model.LectureStart{
		Subject:     teacher.Subject,
		LectureSlot: slot.ID,
		TeacherName: teacher.Name,
	}, nil
}

// EndLecture transitions Active -> Idle, emitting an end record tagged
// with the reason. The transition applies even when the sink write fails;
// the sink is advisory for lecture lifecycle records.
func (m *Manager) EndLecture(ctx context.Context, reason model.EndReason) error {
	now := m.now()

	m.mu.Lock()
	if !m.session.Active {
		m.mu.Unlock()
		return fmt.Errorf("%w: no active lecture session", model.ErrInvalidSessionState)
	}
	teacherCardID := m.session.TeacherCardID
	m.mu.Unlock()

	m.writeEndRecord(ctx, teacherCardID, reason, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Active && m.session.TeacherCardID == teacherCardID {
		m.session = model.Session{}
		m.logger.Info("Lecture ended",
			zap.String("teacher_card_id", teacherCardID),
			zap.String("reason", string(reason)),
		)
	}
	return nil
}

// SubmitScan routes an accepted scan to one of three outcomes: the active
// teacher's card ends the lecture, a student scan becomes an attendance
// record, and other known teachers or admins are acknowledged without any
// sink write. Valid only while a lecture is active.
func (m *Manager) SubmitScan(ctx context.Context, cardID string) (*model.ScanResult, error) {
	now := m.now()

	m.mu.Lock()
	if !m.session.Active {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: attendance session not started", model.ErrInvalidSessionState)
	}

	if cardID == m.session.TeacherCardID {
		teacherCardID := m.session.TeacherCardID
		m.mu.Unlock()

		m.writeEndRecord(ctx, teacherCardID, model.EndReasonNormal, now)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.session.Active && m.session.TeacherCardID == teacherCardID {
			m.session = model.Session{}
			m.logger.Info("Lecture ended by teacher card", zap.String("teacher_card_id", teacherCardID))
		}

		var name string
		if teacher, ok := m.registry.Lookup(teacherCardID); ok {
			name = teacher.Name
		}
		return &model.ScanResult{Action: "end_lecture", Name: name, Role: model.RoleTeacher}, nil
	}

	user, found := m.registry.Lookup(cardID)
	if !found {
		m.mu.Unlock()
		return nil, model.ErrCardNotRegistered
	}

	if user.Role != model.RoleStudent {
		// Teacher (not the active one) or admin: acknowledged as present,
		// never written to the sink.
		m.mu.Unlock()
		m.logger.Info("Presence acknowledged",
			zap.String("card_id", cardID),
			zap.String("role", string(user.Role)),
		)
		return &model.ScanResult{Name: user.Name, Role: user.Role}, nil
	}

	subject := m.session.Subject
	status, slotID := m.schedule.Classify(now)
	m.mu.Unlock()

	record := model.AttendanceRecord{
		Role:        model.RoleStudent,
		CardID:      cardID,
		Name:        user.Name,
		RollNo:      user.RollNo,
		Subject:     subject,
		Time:        now.Format("15:04:05"),
		Date:        now.Format("2006-01-02"),
		Status:      string(status),
		LectureSlot: slotID,
	}
	if err := m.writer.WriteRecord(ctx, record); err != nil {
		// Session state is unaffected; the caller decides whether to retry.
		return nil, fmt.Errorf("%w: attendance for %s", model.ErrSinkWriteFailed, user.Name)
	}

	m.logger.Info("Attendance marked",
		zap.String("card_id", cardID),
		zap.String("name", user.Name),
		zap.String("status", string(status)),
		zap.Int("lecture_slot", slotID),
	)

	return &model.ScanResult{Name: user.Name, Role: model.RoleStudent, Status: status}, nil
}

// Status returns the externally visible session snapshot
func (m *Manager) Status() model.SessionStatus {
	now := m.now()

	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	status := model.SessionStatus{
		AttendanceEnabled: session.Active,
		CurrentSubject:    session.Subject,
	}
	if slot, ok := m.schedule.CurrentSlot(now); ok {
		status.CurrentLectureSlot = slot.ID
	}
	return status
}

// writeEndRecord emits the lecture-ended record. Failures are logged,
// not propagated: ending a lecture must always succeed locally.
func (m *Manager) writeEndRecord(ctx context.Context, teacherCardID string, reason model.EndReason, now time.Time) {
	teacher, ok := m.registry.Lookup(teacherCardID)
	if !ok {
		return
	}

	status := "Lecture Ended"
	if reason == model.EndReasonForced {
		status = "Lecture Ended (Forced)"
	}

	slotID := 0
	if slot, found := m.schedule.CurrentSlot(now); found {
		slotID = slot.ID
	}

	record := model.AttendanceRecord{
		Role:        model.RoleTeacher,
		CardID:      teacherCardID,
		Name:        teacher.Name,
		Subject:     teacher.Subject,
		Time:        now.Format("15:04:05"),
		Date:        now.Format("2006-01-02"),
		Status:      status,
		LectureSlot: slotID,
	}
	if err := m.writer.WriteRecord(ctx, record); err != nil {
		m.logger.Warn("Lecture end record not written", zap.Error(err))
	}
}
