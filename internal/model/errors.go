// internal/model/errors.go
package model

import "errors"

// Sentinel errors for the attendance domain. Hardware and network errors
// are recovered locally and never crash the ingestion loop; session
// transition errors are returned to the caller as typed failures.
var (
	ErrPortUnavailable     = errors.New("serial port unavailable")
	ErrNoHardwareFound     = errors.New("no reader hardware found")
	ErrInvalidSessionState = errors.New("invalid session state")
	ErrInvalidTeacherCard  = errors.New("invalid teacher card")
	ErrNoActiveSlot        = errors.New("no active lecture slot")
	ErrCardNotRegistered   = errors.New("card not registered")
	ErrSinkWriteFailed     = errors.New("attendance sink write failed")
	ErrRegistryFetchFailed = errors.New("registry fetch failed")
	ErrRegistryEmpty       = errors.New("no registered users loaded")
)
