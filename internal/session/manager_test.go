package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"attendance-service/internal/lecture"
	"attendance-service/internal/model"
	"attendance-service/internal/registry"
)

type recordingWriter struct {
	records []model.AttendanceRecord
	fail    bool
}

func (w *recordingWriter) WriteRecord(ctx context.Context, record model.AttendanceRecord) error {
	if w.fail {
		return model.ErrSinkWriteFailed
	}
	w.records = append(w.records, record)
	return nil
}

type staticFetcher struct{}

func (staticFetcher) FetchUsers(ctx context.Context) ([]model.RegisteredUser, error) {
	return nil, nil
}

const (
	teacherCard = "TCHR567890"
	studentCard = "1234567890"
	adminCard   = "ADMN567890"
)

// newTestManager builds a manager over a registry seeded with one teacher,
// one student, and one admin, frozen at the given wall-clock time.
func newTestManager(t *testing.T, writer *recordingWriter, now time.Time) *Manager {
	t.Helper()

	schedule, err := lecture.NewSchedule([]string{"19:00-20:00", "10:30-12:30"}, 15)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	store := registry.NewStore(staticFetcher{}, zap.NewNop())
	store.Insert(model.RegisteredUser{CardID: teacherCard, Role: model.RoleTeacher, Name: "T. Rao", Subject: "Mathematics"})
	store.Insert(model.RegisteredUser{CardID: studentCard, Role: model.RoleStudent, Name: "A. Kumar", RollNo: "17"})
	store.Insert(model.RegisteredUser{CardID: adminCard, Role: model.RoleAdmin, Name: "Office"})

	m := NewManager(store, schedule, writer, zap.NewNop())
	m.now = func() time.Time { return now }
	return m
}

func inSlot(minutesInto int) time.Time {
	return time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC).Add(time.Duration(minutesInto) * time.Minute)
}

func startLecture(t *testing.T, m *Manager) {
	t.Helper()
	if _, err := m.StartLecture(context.Background(), teacherCard); err != nil {
		t.Fatalf("start lecture: %v", err)
	}
}

func TestStartLectureRequiresUsers(t *testing.T) {
	writer := &recordingWriter{}
	schedule, _ := lecture.NewSchedule([]string{"10:30-12:30"}, 15)
	store := registry.NewStore(staticFetcher{}, zap.NewNop())
	m := NewManager(store, schedule, writer, zap.NewNop())
	m.now = func() time.Time { return inSlot(0) }

	if _, err := m.StartLecture(context.Background(), teacherCard); !errors.Is(err, model.ErrRegistryEmpty) {
		t.Fatalf("expected ErrRegistryEmpty, got %v", err)
	}
	if len(writer.records) != 0 {
		t.Fatal("no record should be written on a rejected start")
	}
}

func TestStartLectureRequiresActiveSlot(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	if _, err := m.StartLecture(context.Background(), teacherCard); !errors.Is(err, model.ErrNoActiveSlot) {
		t.Fatalf("expected ErrNoActiveSlot, got %v", err)
	}
}

func TestStartLectureRequiresTeacherCard(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(0))

	for _, card := range []string{studentCard, adminCard, "UNKNOWN999"} {
		if _, err := m.StartLecture(context.Background(), card); !errors.Is(err, model.ErrInvalidTeacherCard) {
			t.Fatalf("card %s: expected ErrInvalidTeacherCard, got %v", card, err)
		}
	}
	if len(writer.records) != 0 {
		t.Fatal("no record should be written on rejected starts")
	}
}

func TestStartLectureWritesStartRecord(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(0))

	result, err := m.StartLecture(context.Background(), teacherCard)
	if err != nil {
		t.Fatalf("start lecture: %v", err)
	}
	if result.Subject != "Mathematics" || result.LectureSlot != 2 || result.TeacherName != "T. Rao" {
		t.Fatalf("unexpected start result: %+v", result)
	}

	if len(writer.records) != 1 {
		t.Fatalf("expected one start record, got %d", len(writer.records))
	}
	record := writer.records[0]
	if record.Status != "Lecture Started - Slot 2" {
		t.Errorf("unexpected status %q", record.Status)
	}
	if record.Role != model.RoleTeacher || record.CardID != teacherCard {
		t.Errorf("unexpected record identity: %+v", record)
	}
	if record.Time != "10:30:00" || record.Date != "2026-03-10" {
		t.Errorf("unexpected record timestamp: time=%s date=%s", record.Time, record.Date)
	}

	status := m.Status()
	if !status.AttendanceEnabled || status.CurrentSubject != "Mathematics" || status.CurrentLectureSlot != 2 {
		t.Fatalf("unexpected session status: %+v", status)
	}
}

func TestStartLectureRejectedWhileActive(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(0))
	startLecture(t, m)

	if _, err := m.StartLecture(context.Background(), teacherCard); !errors.Is(err, model.ErrInvalidSessionState) {
		t.Fatalf("expected ErrInvalidSessionState, got %v", err)
	}
}

func TestStartLectureProceedsWhenStartRecordFails(t *testing.T) {
	writer := &recordingWriter{fail: true}
	m := newTestManager(t, writer, inSlot(0))

	if _, err := m.StartLecture(context.Background(), teacherCard); err != nil {
		t.Fatalf("start should tolerate a failed start record, got %v", err)
	}
	if !m.Status().AttendanceEnabled {
		t.Fatal("session should be active")
	}
}

func TestSubmitScanRejectedWhileIdle(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(0))

	if _, err := m.SubmitScan(context.Background(), studentCard); !errors.Is(err, model.ErrInvalidSessionState) {
		t.Fatalf("expected ErrInvalidSessionState, got %v", err)
	}
	if len(writer.records) != 0 {
		t.Fatal("idle scans must never reach the sink")
	}
}

func TestSubmitScanMarksStudentOnTime(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(5))
	startLecture(t, m)

	result, err := m.SubmitScan(context.Background(), studentCard)
	if err != nil {
		t.Fatalf("submit scan: %v", err)
	}
	if result.Name != "A. Kumar" || result.Role != model.RoleStudent || result.Status != model.StatusOnTime {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(writer.records) != 2 {
		t.Fatalf("expected start + attendance records, got %d", len(writer.records))
	}
	record := writer.records[1]
	if record.Status != string(model.StatusOnTime) || record.LectureSlot != 2 {
		t.Errorf("unexpected classification: %+v", record)
	}
	if record.RollNo != "17" || record.Subject != "Mathematics" {
		t.Errorf("record should carry roll number and session subject: %+v", record)
	}
}

func TestSubmitScanMarksStudentLate(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(20))
	startLecture(t, m)

	result, err := m.SubmitScan(context.Background(), studentCard)
	if err != nil {
		t.Fatalf("submit scan: %v", err)
	}
	if result.Status != model.StatusLate {
		t.Fatalf("20 minutes in should be late, got %s", result.Status)
	}
}

func TestSubmitScanUnknownCard(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(5))
	startLecture(t, m)
	writes := len(writer.records)

	if _, err := m.SubmitScan(context.Background(), "UNKNOWN999"); !errors.Is(err, model.ErrCardNotRegistered) {
		t.Fatalf("expected ErrCardNotRegistered, got %v", err)
	}
	if len(writer.records) != writes {
		t.Fatal("unknown cards must not be written to the sink")
	}
	if !m.Status().AttendanceEnabled {
		t.Fatal("session should stay active")
	}
}

func TestSubmitScanAcknowledgesAdminWithoutWrite(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(5))
	startLecture(t, m)
	writes := len(writer.records)

	result, err := m.SubmitScan(context.Background(), adminCard)
	if err != nil {
		t.Fatalf("submit scan: %v", err)
	}
	if result.Role != model.RoleAdmin || result.Name != "Office" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(writer.records) != writes {
		t.Fatal("admin acks must not be written to the sink")
	}
}

func TestSubmitScanTeacherCardEndsLecture(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(30))
	startLecture(t, m)

	result, err := m.SubmitScan(context.Background(), teacherCard)
	if err != nil {
		t.Fatalf("submit scan: %v", err)
	}
	if result.Action != "end_lecture" || result.Role != model.RoleTeacher {
		t.Fatalf("unexpected result: %+v", result)
	}

	record := writer.records[len(writer.records)-1]
	if record.Status != "Lecture Ended" {
		t.Errorf("unexpected end record status %q", record.Status)
	}
	if m.Status().AttendanceEnabled {
		t.Fatal("session should be idle after the teacher card")
	}
}

func TestSubmitScanSinkFailureKeepsSession(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(5))
	startLecture(t, m)

	writer.fail = true
	if _, err := m.SubmitScan(context.Background(), studentCard); !errors.Is(err, model.ErrSinkWriteFailed) {
		t.Fatalf("expected ErrSinkWriteFailed, got %v", err)
	}
	if !m.Status().AttendanceEnabled {
		t.Fatal("a failed attendance write must not end the session")
	}

	// The scan succeeds once the sink recovers
	writer.fail = false
	if _, err := m.SubmitScan(context.Background(), studentCard); err != nil {
		t.Fatalf("retry after sink recovery: %v", err)
	}
}

func TestEndLectureNormal(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(45))
	startLecture(t, m)

	if err := m.EndLecture(context.Background(), model.EndReasonNormal); err != nil {
		t.Fatalf("end lecture: %v", err)
	}

	record := writer.records[len(writer.records)-1]
	if record.Status != "Lecture Ended" {
		t.Errorf("unexpected end record status %q", record.Status)
	}
	if m.Status().AttendanceEnabled {
		t.Fatal("session should be idle")
	}
}

func TestEndLectureForced(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(45))
	startLecture(t, m)

	if err := m.EndLecture(context.Background(), model.EndReasonForced); err != nil {
		t.Fatalf("end lecture: %v", err)
	}

	record := writer.records[len(writer.records)-1]
	if record.Status != "Lecture Ended (Forced)" {
		t.Errorf("unexpected end record status %q", record.Status)
	}
}

func TestEndLectureRejectedWhileIdle(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(45))

	if err := m.EndLecture(context.Background(), model.EndReasonNormal); !errors.Is(err, model.ErrInvalidSessionState) {
		t.Fatalf("expected ErrInvalidSessionState, got %v", err)
	}
}

func TestEndLectureAppliesWhenEndRecordFails(t *testing.T) {
	writer := &recordingWriter{}
	m := newTestManager(t, writer, inSlot(45))
	startLecture(t, m)

	writer.fail = true
	if err := m.EndLecture(context.Background(), model.EndReasonNormal); err != nil {
		t.Fatalf("end must succeed locally even when the sink fails, got %v", err)
	}
	if m.Status().AttendanceEnabled {
		t.Fatal("session should be idle")
	}
}
