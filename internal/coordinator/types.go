package coordinator

import (
	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
)

// ReservationInput is the caller-supplied half of a booking that describes
// the stay. Guests is a pointer so "absent" and "zero guests" stay
// distinguishable for validation.
type ReservationInput struct {
	HotelID    string
	UserID     string
	CheckIn    string
	CheckOut   string
	Guests     *entity.GuestCount
	Price      float64
	TotalPrice float64
	Nights     int
	Notes      string
}

// TransactionInput describes the payment half. Amount is a pointer for the
// same absent-vs-zero reason.
type TransactionInput struct {
	UserID      string
	Amount      *float64
	Description string
}

// Result statuses. A booking whose finalize step failed still resolves —
// both records exist and the payment went through, only their terminal
// status fields lag.
const (
	StatusCompleted             = "completed"
	StatusCompletedWithWarnings = "completed_with_warnings"
)

// BookingResult is what a successful saga returns. Reservation and
// Transaction are linked by Transaction.ReservationID.
type BookingResult struct {
	Reservation *entity.Reservation
	Transaction *entity.Transaction
	Status      string
}

// RollbackStatus records how far the compensation ladder got.
type RollbackStatus string

const (
	RollbackSoftDeleted RollbackStatus = "soft_deleted"
	RollbackHardDeleted RollbackStatus = "hard_deleted"
	RollbackFailed      RollbackStatus = "failed"
)

// Step names as they appear in the saga log.
const (
	stepCreateReservation = "create_reservation"
	stepConfirmVisible    = "confirm_reservation_visible"
	stepCreateTransaction = "create_transaction"
	stepFinalize          = "finalize_records"
)
