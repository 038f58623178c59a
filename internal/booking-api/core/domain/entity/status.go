package entity

import (
	"encoding/json"
	"fmt"
)

// Phase is one stage value inside a reservation status.
type Phase string

const (
	PhasePending         Phase = "pending"
	PhaseConfirmed       Phase = "confirmed"
	PhaseCancelled       Phase = "cancelled"
	PhaseCompleted       Phase = "completed"
	PhaseActive          Phase = "active"
	PhaseRefundProcessed Phase = "refund_processed"
)

// Status is the reservation status record. Historically the store holds two
// representations: this structured form and a bare legacy string. The bare
// string is accepted on read and normalised here, at the JSON boundary —
// nothing inward of this type ever sees the string form, and writes always
// emit the structured form.
type Status struct {
	Booking  Phase `json:"booking"`
	CheckIn  Phase `json:"checkIn"`
	CheckOut Phase `json:"checkOut"`
}

// NewStatus returns a status in the given booking phase with pending
// check-in/check-out sub-states.
func NewStatus(booking Phase) Status {
	return Status{Booking: booking, CheckIn: PhasePending, CheckOut: PhasePending}
}

// CancelledStatus returns the fully-cancelled status written by soft deletes.
func CancelledStatus() Status {
	return Status{Booking: PhaseCancelled, CheckIn: PhaseCancelled, CheckOut: PhaseCancelled}
}

// UnmarshalJSON accepts both representations found in the store.
func (s *Status) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var legacy string
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("status: decode legacy string: %w", err)
		}
		*s = normaliseLegacy(Phase(legacy))
		return nil
	}

	// Alias avoids recursing into this method.
	type structured Status
	var v structured
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("status: decode: %w", err)
	}
	*s = Status(v)
	if s.Booking == "" {
		s.Booking = PhasePending
	}
	if s.CheckIn == "" {
		s.CheckIn = PhasePending
	}
	if s.CheckOut == "" {
		s.CheckOut = PhasePending
	}
	return nil
}

func normaliseLegacy(p Phase) Status {
	switch p {
	case PhaseCancelled:
		return CancelledStatus()
	case "":
		return NewStatus(PhasePending)
	default:
		return NewStatus(p)
	}
}
