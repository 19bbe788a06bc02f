// internal/model/session.go
package model

// Session holds the single process-wide lecture session.
// Inactive at process start; never persisted, the external sink is the
// system of record for completed lectures.
type Session struct {
	Active        bool   `json:"active"`
	Subject       string `json:"subject,omitempty"`
	TeacherCardID string `json:"teacher_card_id,omitempty"`
}

// EndReason tags why a lecture was ended
type EndReason string

const (
	EndReasonNormal EndReason = "normal"
	EndReasonForced EndReason = "forced"
)

// AttendanceStatus classifies a scan against the active lecture slot
type AttendanceStatus string

const (
	StatusOnTime      AttendanceStatus = "On-time"
	StatusLate        AttendanceStatus = "Late"
	StatusInvalidTime AttendanceStatus = "Invalid Time"
)

// SessionStatus is the externally visible session snapshot
type SessionStatus struct {
	AttendanceEnabled  bool   `json:"attendance_enabled"`
	CurrentSubject     string `json:"current_subject,omitempty"`
	CurrentLectureSlot int    `json:"current_lecture_slot,omitempty"`
}

// LectureStart reports a successful lecture start
type LectureStart struct {
	Subject     string `json:"subject"`
	LectureSlot int    `json:"lecture_slot"`
	TeacherName string `json:"teacher_name"`
}

// ScanResult reports the outcome of submitting a scan to the session
type ScanResult struct {
	Action      string           `json:"action,omitempty"` // end_lecture when the active teacher's card closed the session
	Name        string           `json:"name,omitempty"`
	Role        Role             `json:"role,omitempty"`
	Status      AttendanceStatus `json:"status,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	LectureSlot int              `json:"lecture_slot,omitempty"`
}
