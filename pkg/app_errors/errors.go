package apperrors

import "errors"

// NotFound
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrLocationNotFound     = errors.New("location not found")
	ErrCategoryNotFound     = errors.New("category not found")
)

// Forbidden
var (
	ErrForbidden = errors.New("insufficient permissions")
)

// Conflict
var (
	ErrEventNotPublished       = errors.New("event is not open for registration")
	ErrEventEnded              = errors.New("event already ended")
	ErrAlreadyRegistered       = errors.New("already registered")
	ErrEventFull               = errors.New("event is full")
	ErrAlreadyCancelled        = errors.New("registration already cancelled")
	ErrInvalidStatusTransition = errors.New("invalid event status transition")
	ErrCapacityBelowRegistered = errors.New("cannot reduce capacity below registered count")
	ErrEventHasRegistrations   = errors.New("cannot delete event with registrations")
	ErrEmailTaken              = errors.New("email already in use")
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCounterConsistency 表示 registered_count 已偏離 [0, capacity]，屬於內部一致性錯誤
	ErrCounterConsistency  = errors.New("registered count out of range")
	ErrInternalServerError = errors.New("internal server error")
)
