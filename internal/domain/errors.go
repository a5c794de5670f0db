package domain

import "errors"

// Sentinel errors for business-rule failures - match with errors.Is().
// Handlers translate these into HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ConflictError carries details about the existing resource that caused
// a conflict, so create handlers can return it alongside the 409.
type ConflictError struct {
	Message      string
	ResourceType string // bookmark, folder, link, nugget
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
