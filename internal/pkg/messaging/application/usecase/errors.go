package usecase

import "errors"

// Validation errors are reported to the initiating client as named error
// events and never logged as server faults. ErrPersistence marks an
// infrastructure failure inside a use case.
var (
	ErrContentRequired  = errors.New("message content is required")
	ErrMissingFields    = errors.New("missing required fields")
	ErrUserNotFound     = errors.New("user not found")
	ErrSchoolMismatch   = errors.New("school mismatch")
	ErrQuestionRequired = errors.New("question is required")
	ErrQuestionFormat   = errors.New("question contains a reserved character sequence")
	ErrNotStudent       = errors.New("tutoring is only available for students")
	ErrPersistence      = errors.New("messaging use case persistence error")
)
