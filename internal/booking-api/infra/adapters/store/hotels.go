package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/booking-api/core/ports"
	"github.com/hotelier/booking-saga/internal/docstore"
	"github.com/hotelier/booking-saga/internal/pkg/cache"
	"github.com/hotelier/booking-saga/internal/pkg/retry"
)

const hotelCacheTTL = 5 * time.Minute

// Hotels implements ports.HotelStore with a redis read-through cache on
// single-hotel reads. The cache may be nil; every cache failure degrades to
// a store read.
type Hotels struct {
	docs  *docstore.Client
	cache cache.Cache

	// listPolicy: 3 attempts, linear backoff, matching the historical
	// hotel-listing behaviour.
	listPolicy retry.Policy
}

var _ ports.HotelStore = (*Hotels)(nil)

func NewHotels(docs *docstore.Client, c cache.Cache) *Hotels {
	return &Hotels{
		docs:       docs,
		cache:      c,
		listPolicy: linearPolicy(3, time.Second),
	}
}

func (h *Hotels) GetByID(ctx context.Context, id string) (*entity.Hotel, error) {
	var key string
	if h.cache != nil {
		key = h.cache.GenerateKey("hotel", id)
		if raw, err := h.cache.Get(ctx, key); err == nil && raw != "" {
			var hotel entity.Hotel
			if err := json.Unmarshal([]byte(raw), &hotel); err == nil {
				return &hotel, nil
			}
		}
	}

	var hotel entity.Hotel
	if err := h.docs.Get(ctx, colHotels, id, &hotel); err != nil {
		return nil, fmt.Errorf("get hotel %s: %w", id, err)
	}

	if h.cache != nil {
		if raw, err := json.Marshal(hotel); err == nil {
			if err := h.cache.Set(ctx, key, raw, hotelCacheTTL); err != nil {
				slog.WarnContext(ctx, "hotel cache write failed", "hotel_id", id, "error", err)
			}
		}
	}
	return &hotel, nil
}

// List filters and sorts hotels newest-first. The maxGuests bound is
// applied after the fetch — see entity.HotelFilter.
func (h *Hotels) List(ctx context.Context, filter entity.HotelFilter) ([]entity.Hotel, error) {
	q := docstore.NewQuery().Sort("createdAt", "desc")
	if filter.City != "" {
		q.Like("city", filter.City)
	}
	if filter.Category != "" {
		q.Eq("category", filter.Category)
	}
	if filter.MinPrice != "" {
		q.Gte("price", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		q.Lte("price", filter.MaxPrice)
	}

	var hotels []entity.Hotel
	err := h.listPolicy.Do(ctx, func(ctx context.Context) error {
		hotels = hotels[:0]
		return h.docs.List(ctx, colHotels, q, &hotels)
	})
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}

	if filter.MaxGuests <= 0 {
		return hotels, nil
	}
	filtered := hotels[:0]
	for _, hotel := range hotels {
		if hotel.MaxGuests >= filter.MaxGuests {
			filtered = append(filtered, hotel)
		}
	}
	return filtered, nil
}

// ListRooms returns a hotel's available rooms, cheapest first.
func (h *Hotels) ListRooms(ctx context.Context, hotelID string) ([]entity.Room, error) {
	q := docstore.NewQuery().
		Eq("hotelId", hotelID).
		Eq("status", "available").
		Sort("price", "asc")

	var rooms []entity.Room
	if err := h.docs.List(ctx, colRooms, q, &rooms); err != nil {
		return nil, fmt.Errorf("list rooms for hotel %s: %w", hotelID, err)
	}
	return rooms, nil
}
