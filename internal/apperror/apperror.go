// Package apperror defines the domain errors shared by the service and
// handler layers.  Every AppError carries the message shown to the user as
// a flash message; the wrapped sentinel tells handlers which rule failed.
package apperror

import "errors"

var (
    ErrNotFound      = errors.New("not found")
    ErrValidation    = errors.New("validation error")
    ErrConflict      = errors.New("conflict")
    ErrUnauthorized  = errors.New("unauthorized")
    ErrBookingWindow = errors.New("outside booking window")
    ErrCapacity      = errors.New("capacity exceeded")
    ErrDatabase      = errors.New("database error")
)

type AppError struct {
    Err     error  // sentinel
    Message string // user-facing message
    Field   string // optional: form field causing the error
}

func (e *AppError) Error() string {
    return e.Message
}

func (e *AppError) Unwrap() error {
    return e.Err
}

func ValidationFailed(field, message string) *AppError {
    return &AppError{
        Err:     ErrValidation,
        Message: message,
        Field:   field,
    }
}

// Conflict reports a uniqueness violation such as a duplicate registration.
func Conflict(message string) *AppError {
    return &AppError{
        Err:     ErrConflict,
        Message: message,
    }
}

// Unauthorized reports failed authentication.
func Unauthorized(message string) *AppError {
    return &AppError{
        Err:     ErrUnauthorized,
        Message: message,
    }
}

// BookingWindow reports a reservation attempted outside its window.
func BookingWindow(message string) *AppError {
    return &AppError{
        Err:     ErrBookingWindow,
        Message: message,
    }
}

// Capacity reports a per-user or per-hall cap that would be exceeded.
func Capacity(message string) *AppError {
    return &AppError{
        Err:     ErrCapacity,
        Message: message,
    }
}

// Database wraps a storage failure.  The message keeps the driver's text
// so the flash reads "Database error: <cause>".
func Database(cause error) *AppError {
    return &AppError{
        Err:     ErrDatabase,
        Message: "Database error: " + cause.Error(),
    }
}

// Message returns the user-facing message of err when it is an AppError,
// and fallback otherwise.
func Message(err error, fallback string) string {
    var appErr *AppError
    if errors.As(err, &appErr) && appErr.Message != "" {
        return appErr.Message
    }
    return fallback
}

// IsUserFacing reports whether err is an AppError caused by the request
// rather than by the server.
func IsUserFacing(err error) bool {
    var appErr *AppError
    return errors.As(err, &appErr) && !errors.Is(err, ErrDatabase)
}
