package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomFull       = "room_full"
	ErrCodeNameTaken      = "name_taken"
	ErrCodeNotJoined      = "not_joined"
	ErrCodeMessageTooLong = "message_too_long"
	ErrCodeInvalidName    = "invalid_name"
	ErrCodeBadRequest     = "bad_request"
)

var (
	ErrRoomFull       = errors.New("room full")
	ErrNameTaken      = errors.New("name taken")
	ErrNotJoined      = errors.New("must join first")
	ErrMessageTooLong = errors.New("message too long")
	ErrNameRequired   = errors.New("name required")
	ErrNameTooLong    = errors.New("name too long")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel error, if any, so callers can use errors.Is.
func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code string, err error) *CoreError {
	return &CoreError{Code: code, Message: err.Error(), err: err}
}
