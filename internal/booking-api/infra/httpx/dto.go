package httpx

import (
	"encoding/json"
	"time"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
)

// BookingRequest mirrors the wire shape the booking clients send: the two
// halves of the saga input under their historical field names.
type BookingRequest struct {
	ReservationData *ReservationDTO `json:"reservationData"`
	TransactionData *TransactionDTO `json:"transactionData"`
}

type ReservationDTO struct {
	HotelID    string     `json:"hotelId"`
	UserID     string     `json:"userId"`
	CheckIn    string     `json:"checkIn"`
	CheckOut   string     `json:"checkOut"`
	Guests     *GuestsDTO `json:"guests"`
	Price      float64    `json:"price"`
	TotalPrice float64    `json:"totalPrice"`
	Nights     int        `json:"nights"`
	Notes      string     `json:"notes"`
}

type GuestsDTO struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// TransactionDTO uses a pointer for Amount so a missing field and an
// explicit zero stay distinguishable for validation.
type TransactionDTO struct {
	UserID      string   `json:"userId"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
}

type BookingResponse struct {
	Status      string              `json:"status"`
	Reservation *entity.Reservation `json:"reservation"`
	Transaction *entity.Transaction `json:"transaction"`
}

type RefundApprovalRequest struct {
	TransactionID string `json:"transactionId"`
	ReservationID string `json:"reservationId"`
}

type RefundApprovalResponse struct {
	Status string `json:"status"`
}

type SagaStatusResponse struct {
	SagaID        string          `json:"sagaId"`
	Status        string          `json:"status"`
	CurrentStep   string          `json:"currentStep,omitempty"`
	ErrorMessages json.RawMessage `json:"errorMessages"`
	TraceID       string          `json:"traceId,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
