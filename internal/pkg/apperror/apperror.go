package apperror

import "errors"

// AppError is a named failure kind carrying the HTTP status the boundary should answer with.
type AppError struct {
	Status int    // HTTP Status Code (e.g., 400, 409)
	Code   string // Stable machine-readable code, also the user-facing message
	Err    error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind, so a wrapped
// copy still matches its sentinel with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError with a status code and code string.
func New(status int, code string) *AppError {
	return &AppError{
		Status: status,
		Code:   code,
	}
}

// Wrap returns a copy of kind that carries err as its cause.
func Wrap(kind *AppError, err error) *AppError {
	return &AppError{
		Status: kind.Status,
		Code:   kind.Code,
		Err:    err,
	}
}
