// internal/model/record.go
package model

// AttendanceRecord is the payload written to the external attendance sink.
// Field names match the webhook's expected columns.
type AttendanceRecord struct {
	Role         Role   `json:"role"`
	CardID       string `json:"card_id"`
	Name         string `json:"name"`
	RollNo       string `json:"roll_no,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Time         string `json:"time,omitempty"` // HH:MM:SS
	Date         string `json:"date"`           // YYYY-MM-DD
	Status       string `json:"status,omitempty"`
	LectureSlot  int    `json:"lecture_slot,omitempty"`
	RegisterOnly bool   `json:"register_only,omitempty"`
}
