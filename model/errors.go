package model

const (
	ErrInvalid  = "INVALID"
	ErrNotFound = "NOT_FOUND"
)

// ShareError is returned for failures caused by user input rather than the host.
type ShareError struct {
	Code    string
	Message string
}

func (e *ShareError) Error() string { return e.Message }

func Invalid(msg string) error {
	return &ShareError{Code: ErrInvalid, Message: msg}
}

func NotFound(msg string) error {
	return &ShareError{Code: ErrNotFound, Message: msg}
}
