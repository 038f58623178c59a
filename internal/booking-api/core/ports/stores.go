// Package ports defines the interfaces the booking flow depends on. The
// coordinator and the HTTP handler consume these abstractions, not the
// document store directly, so tests can substitute fakes and the store
// implementation can change without touching the saga.
package ports

import (
	"context"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
)

// ReservationStore writes and reads the /reservations collection.
type ReservationStore interface {
	// Create validates hotel capacity (adults+children vs the hotel's
	// maxGuests) and persists a new pending reservation with a generated ID.
	Create(ctx context.Context, input entity.Reservation) (*entity.Reservation, error)

	GetByID(ctx context.Context, id string) (*entity.Reservation, error)

	// Patch merges fields into the stored document. The store has no
	// concurrency control: whatever is sent overwrites.
	Patch(ctx context.Context, id string, fields map[string]any) (*entity.Reservation, error)

	// SoftDelete cancels the reservation in place, recording why.
	SoftDelete(ctx context.Context, id, reason string) error

	// Delete removes the document permanently. Last-resort compensation
	// only.
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string) ([]entity.Reservation, error)

	// ListDetailed joins reservations with users and hotels and derives
	// time-based phases for dashboard views.
	ListDetailed(ctx context.Context) ([]entity.ReservationDetail, error)
}

// TransactionStore writes the /transactions collection. Nothing deletes a
// transaction, ever.
type TransactionStore interface {
	// Create persists a new transaction with a generated ID, retrying
	// transient store failures.
	Create(ctx context.Context, input entity.Transaction) (*entity.Transaction, error)

	Patch(ctx context.Context, id string, fields map[string]any) (*entity.Transaction, error)
}

// HotelStore reads the /hotels and /rooms collections.
type HotelStore interface {
	GetByID(ctx context.Context, id string) (*entity.Hotel, error)
	List(ctx context.Context, filter entity.HotelFilter) ([]entity.Hotel, error)
	ListRooms(ctx context.Context, hotelID string) ([]entity.Room, error)
}
