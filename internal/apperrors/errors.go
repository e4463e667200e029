package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation is not allowed in the resource's current state.
var ErrConflict = errors.New("conflicting state")

// ErrConfiguration indicates that company or journal configuration required for an
// operation is missing or inconsistent.
var ErrConfiguration = errors.New("configuration error")

// ErrExportBlocked indicates that pre-export validation found bookings that must be
// corrected before a file can be produced.
var ErrExportBlocked = errors.New("export blocked by validation")
