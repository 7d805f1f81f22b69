// Package apperror holds the error kinds the reservation flow surfaces to
// callers. Handlers map each kind to one HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	ID       any
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID != nil {
		return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// SeatUnavailableError is contention on a seat, expected under load.
type SeatUnavailableError struct {
	SeatIDs []uint
}

func (e SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", joinIDs(e.SeatIDs))
}

type HoldMismatchError struct {
	SeatIDs []uint
	Msg     string
}

func (e HoldMismatchError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("seats not held by caller: %s", joinIDs(e.SeatIDs))
}

type HoldExpiredError struct {
	HoldID string
}

func (e HoldExpiredError) Error() string {
	if e.HoldID == "" {
		return "hold expired"
	}
	return fmt.Sprintf("hold %s expired", e.HoldID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PaymentFailedError is a gateway decline. The booking stays payable.
type PaymentFailedError struct {
	Reason string
	Err    error
}

func (e PaymentFailedError) Error() string {
	if e.Reason == "" {
		return "payment failed"
	}
	return "payment failed: " + e.Reason
}

func (e PaymentFailedError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
}

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "unauthorized"
	}
	return e.Msg
}

type InternalError struct {
	Op  string
	Err error
}

func (e InternalError) Error() string {
	if e.Err == nil {
		return e.Op + ": internal error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e InternalError) Unwrap() error { return e.Err }

// Internal wraps a storage failure. Errors that already carry a kind pass through.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != "" {
		return err
	}
	return InternalError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsSeatUnavailable(err error) bool {
	var target SeatUnavailableError
	return errors.As(err, &target)
}

func IsHoldMismatch(err error) bool {
	var target HoldMismatchError
	return errors.As(err, &target)
}

func IsHoldExpired(err error) bool {
	var target HoldExpiredError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsPaymentFailed(err error) bool {
	var target PaymentFailedError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// Kind names the taxonomy entry of err, or "" for untyped errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "NotFound"
	case IsSeatUnavailable(err):
		return "SeatUnavailable"
	case IsHoldMismatch(err):
		return "HoldMismatch"
	case IsHoldExpired(err):
		return "HoldExpired"
	case IsValidation(err):
		return "ValidationError"
	case IsPaymentFailed(err):
		return "PaymentFailed"
	case IsConflict(err):
		return "Conflict"
	case IsUnauthorized(err):
		return "Unauthorized"
	case IsInternal(err):
		return "InternalError"
	}
	return ""
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
