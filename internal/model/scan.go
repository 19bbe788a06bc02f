// internal/model/scan.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent represents a single accepted card read.
// Immutable once produced.
type ScanEvent struct {
	ID         uuid.UUID `json:"id"`
	CardID     string    `json:"card_id"`
	ObservedAt time.Time `json:"observed_at"`
	Simulated  bool      `json:"simulated,omitempty"`
}

// NewScanEvent creates a scan event for a card read observed now
func NewScanEvent(cardID string, observedAt time.Time, simulated bool) ScanEvent {
	return ScanEvent{
		ID:         uuid.New(),
		CardID:     cardID,
		ObservedAt: observedAt,
		Simulated:  simulated,
	}
}

// ScanMode selects which logical consumer receives broadcast deliveries.
// Exactly one mode is active at a time.
type ScanMode string

const (
	ScanModeNone            ScanMode = "none"
	ScanModeRegistration    ScanMode = "registration"
	ScanModeAttendance      ScanMode = "attendance"
	ScanModeStartAttendance ScanMode = "start_attendance"
)

// IsValid checks whether the mode is one of the known values
func (m ScanMode) IsValid() bool {
	switch m {
	case ScanModeNone, ScanModeRegistration, ScanModeAttendance, ScanModeStartAttendance:
		return true
	default:
		return false
	}
}

// SerialPortInfo describes an OS-visible serial port.
// Transient, rebuilt on every discovery call.
type SerialPortInfo struct {
	Device      string `json:"device"`
	Description string `json:"description"`
	HardwareID  string `json:"hwid"`
}

// ReaderStatus is a snapshot of the ingestion loop's connection state
type ReaderStatus struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port,omitempty"`
	Simulated bool   `json:"simulated"`
}
