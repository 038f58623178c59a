package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hotelier/booking-saga/internal/booking-api/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/bookings", handler.CreateBooking)
	r.Get("/reservations", handler.ListReservations)
	r.Get("/reservations/{id}", handler.GetReservation)
	r.Get("/users/{id}/reservations", handler.GetUserReservations)
	r.Get("/hotels", handler.ListHotels)
	r.Get("/hotels/{id}", handler.GetHotel)
	r.Get("/hotels/{id}/rooms", handler.ListRooms)
	r.Post("/refunds/approve", handler.ApproveRefund)
	r.Get("/sagas/{id}", handler.GetSaga)
	return r
}
