package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code. UI layers branch on it instead of
// string-matching localised messages.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeMissingFields     Code = "MISSING_FIELDS"
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeTransactionFailed Code = "TRANSACTION_FAILED"
	CodeDuplicateRequest  Code = "DUPLICATE_REQUEST"
)

// Error is a domain error with an attached code and optional structured
// details. The code survives wrapping: use CodeOf to recover it.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a coded error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails attaches structured details and returns the error for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// CodeOf extracts the code from err or any error it wraps; empty when none
// was assigned.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// DetailsOf extracts the structured details, nil when absent.
func DetailsOf(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Details
	}
	return nil
}

// MissingFieldsError reports exactly which required fields were absent from
// each input, e.g. "reservation (checkIn, guests), transaction (amount)".
func MissingFieldsError(reservationFields, transactionFields []string) *Error {
	return NewError(CodeMissingFields, fmt.Sprintf(
		"missing required fields: reservation (%s), transaction (%s)",
		strings.Join(reservationFields, ", "),
		strings.Join(transactionFields, ", "),
	)).WithDetails(map[string]any{
		"reservation": reservationFields,
		"transaction": transactionFields,
	})
}

// GuestLimitError is the capacity validation failure. Deliberately carries
// no Code — it predates the coded taxonomy — but exposes both counts so
// callers can render them.
type GuestLimitError struct {
	Requested int
	Max       int
}

func (e *GuestLimitError) Error() string {
	return fmt.Sprintf("guest count %d exceeds the hotel limit of %d", e.Requested, e.Max)
}
