package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/booking-api/core/ports"
	"github.com/hotelier/booking-saga/internal/docstore"
	"github.com/hotelier/booking-saga/internal/pkg/ident"
	"github.com/hotelier/booking-saga/internal/pkg/retry"
)

// Reservations implements ports.ReservationStore.
type Reservations struct {
	docs   *docstore.Client
	hotels ports.HotelStore

	// deletePolicy guards the hard delete: 3 attempts, linear backoff.
	deletePolicy retry.Policy
	// listPolicy guards user-facing reads: 3 attempts, linear backoff.
	listPolicy retry.Policy
}

var _ ports.ReservationStore = (*Reservations)(nil)

func NewReservations(docs *docstore.Client, hotels ports.HotelStore) *Reservations {
	return &Reservations{
		docs:         docs,
		hotels:       hotels,
		deletePolicy: linearPolicy(3, time.Second),
		listPolicy:   linearPolicy(3, time.Second),
	}
}

// Create validates hotel capacity and persists a new pending reservation.
// The capacity check happens only here, at creation time — updates do not
// re-check it.
func (r *Reservations) Create(ctx context.Context, input entity.Reservation) (*entity.Reservation, error) {
	hotel, err := r.hotels.GetByID(ctx, input.HotelID)
	if err != nil {
		return nil, fmt.Errorf("load hotel %s: %w", input.HotelID, err)
	}

	total := input.Guests.Total()
	if total > hotel.MaxGuests {
		return nil, &entity.GuestLimitError{Requested: total, Max: hotel.MaxGuests}
	}

	now := nowISO()
	doc := input
	doc.ID = ident.New(ident.PrefixReservation)
	doc.HotelName = hotel.Name
	doc.MaxGuests = hotel.MaxGuests
	doc.Status = entity.NewStatus(entity.PhasePending)
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Price == 0 {
		doc.Price = hotel.Price
	}

	var created entity.Reservation
	if err := r.docs.Create(ctx, colReservations, doc, &created); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return &created, nil
}

func (r *Reservations) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.docs.Get(ctx, colReservations, id, &res); err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return &res, nil
}

func (r *Reservations) Patch(ctx context.Context, id string, fields map[string]any) (*entity.Reservation, error) {
	patch := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		patch[k] = v
	}
	patch["updatedAt"] = nowISO()

	var updated entity.Reservation
	if err := r.docs.Patch(ctx, colReservations, id, patch, &updated); err != nil {
		return nil, fmt.Errorf("patch reservation %s: %w", id, err)
	}
	return &updated, nil
}

// SoftDelete cancels the reservation in place. Single attempt — callers own
// their retry ladder (the saga retries this with exponential backoff).
func (r *Reservations) SoftDelete(ctx context.Context, id, reason string) error {
	_, err := r.Patch(ctx, id, map[string]any{
		"status":             entity.CancelledStatus(),
		"cancellationReason": reason,
	})
	return err
}

// Delete removes the document permanently, retrying transient failures.
func (r *Reservations) Delete(ctx context.Context, id string) error {
	return r.deletePolicy.Do(ctx, func(ctx context.Context) error {
		return r.docs.Delete(ctx, colReservations, id)
	})
}

func (r *Reservations) ListByUser(ctx context.Context, userID string) ([]entity.Reservation, error) {
	if userID == "" {
		return nil, entity.NewError(entity.CodeInvalidInput, "user id is required")
	}

	var out []entity.Reservation
	err := r.listPolicy.Do(ctx, func(ctx context.Context) error {
		out = out[:0]
		return r.docs.List(ctx, colReservations, docstore.NewQuery().Eq("userId", userID), &out)
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations for user %s: %w", userID, err)
	}
	return out, nil
}

// ListDetailed joins reservations with users and hotels. The side lookups
// are best-effort: a failed users or hotels fetch degrades to empty
// summaries rather than failing the listing.
func (r *Reservations) ListDetailed(ctx context.Context) ([]entity.ReservationDetail, error) {
	var reservations []entity.Reservation
	if err := r.docs.List(ctx, colReservations, nil, &reservations); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	var users []entity.User
	if err := r.docs.List(ctx, colUsers, nil, &users); err != nil {
		slog.WarnContext(ctx, "user lookup failed, serving reservations without user data", "error", err)
	}
	var hotels []entity.Hotel
	if err := r.docs.List(ctx, colHotels, nil, &hotels); err != nil {
		slog.WarnContext(ctx, "hotel lookup failed, serving reservations without hotel data", "error", err)
	}

	usersByID := make(map[string]entity.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	hotelsByID := make(map[string]entity.Hotel, len(hotels))
	for _, h := range hotels {
		hotelsByID[h.ID] = h
	}

	now := time.Now()
	details := make([]entity.ReservationDetail, 0, len(reservations))
	for _, res := range reservations {
		hotel := hotelsByID[res.HotelID]
		user := usersByID[res.UserID]

		deriveTimePhases(&res, now)

		if res.HotelName == "" {
			res.HotelName = hotel.Name
		}
		if res.Price == 0 {
			res.Price = hotel.Price
		}
		if res.TotalPrice == 0 {
			nights := res.Nights
			if nights < 1 {
				nights = 1
			}
			res.TotalPrice = res.Price * float64(nights)
		}

		details = append(details, entity.ReservationDetail{
			Reservation: res,
			User: entity.UserSummary{
				ID:          user.ID,
				FirstName:   user.FirstName,
				LastName:    user.LastName,
				Email:       user.Email,
				PhoneNumber: user.PhoneNumber,
			},
			Hotel: entity.HotelSummary{
				ID:   hotel.ID,
				Name: hotel.Name,
				City: hotel.City,
			},
		})
	}
	return details, nil
}

// deriveTimePhases promotes the booking phase based on the calendar: past
// check-out means completed, past check-in on a confirmed booking means
// active. Unparseable dates leave the status untouched.
func deriveTimePhases(res *entity.Reservation, now time.Time) {
	if out, ok := parseDate(res.CheckOut); ok && now.After(out) {
		res.Status.Booking = entity.PhaseCompleted
		return
	}
	if in, ok := parseDate(res.CheckIn); ok && now.After(in) && res.Status.Booking == entity.PhaseConfirmed {
		res.Status.Booking = entity.PhaseActive
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
