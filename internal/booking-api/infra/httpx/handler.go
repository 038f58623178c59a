package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/booking-api/core/ports"
	"github.com/hotelier/booking-saga/internal/booking-api/infra/httpx/middlewares"
	"github.com/hotelier/booking-saga/internal/coordinator"
	"github.com/hotelier/booking-saga/internal/coordinator/sagalog"
	"github.com/hotelier/booking-saga/internal/pkg/cache"
)

// idempotencyTTL is how long a booking submission key blocks replays. A day
// comfortably outlives any client retry loop.
const idempotencyTTL = 24 * time.Hour

// Handler handles incoming HTTP requests for the booking domain and runs
// the reservation saga.
type Handler struct {
	saga         *coordinator.Saga
	reservations ports.ReservationStore
	hotels       ports.HotelStore
	sagaLogRepo  sagalog.Repository // nil-safe: status endpoint returns 503 if nil
	cache        cache.Cache        // nil-safe: idempotency guard skipped if nil
}

// NewHandler initializes the handler with the saga and its read-side ports.
// sagaRepo and c may be nil — the corresponding features degrade gracefully.
func NewHandler(
	saga *coordinator.Saga,
	reservations ports.ReservationStore,
	hotels ports.HotelStore,
	sagaRepo sagalog.Repository,
	c cache.Cache,
) *Handler {
	return &Handler{
		saga:         saga,
		reservations: reservations,
		hotels:       hotels,
		sagaLogRepo:  sagaRepo,
		cache:        c,
	}
}

// CreateBooking receives the request, guards against duplicate submissions,
// and runs the reservation saga synchronously. The caller gets the final
// outcome in one round trip, exactly like the original flow.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}

	ctx := r.Context()
	requestID := middlewares.RequestID(ctx)

	// Duplicate-submission guard. SETNX loses only to an earlier identical
	// key; a redis failure fails open because blocking bookings on cache
	// availability would be worse than an occasional duplicate.
	if h.cache != nil {
		idempKey := middlewares.IdempotencyKey(ctx)
		won, err := h.cache.SetNX(ctx, h.cache.GenerateKey("booking", idempKey), requestID, idempotencyTTL)
		if err != nil {
			slog.WarnContext(ctx, "idempotency check unavailable, proceeding", "request_id", requestID, "error", err)
		} else if !won {
			writeError(w, http.StatusConflict, string(entity.CodeDuplicateRequest),
				"a booking with this idempotency key was already submitted", nil)
			return
		}
	}

	slog.InfoContext(ctx, "creating booking", "request_id", requestID)

	result, err := h.saga.CreateReservationWithTransaction(ctx, mapReservationInput(req.ReservationData), mapTransactionInput(req.TransactionData))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{
		Status:      result.Status,
		Reservation: result.Reservation,
		Transaction: result.Transaction,
	})
}

// GetReservation retrieves a single reservation by its ID.
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "reservation_not_found", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListReservations returns every reservation enriched with user and hotel
// summaries, with time-derived phases applied.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	details, err := h.reservations.ListDetailed(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "store_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// GetUserReservations lists a user's reservations.
func (h *Handler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	reservations, err := h.reservations.ListByUser(r.Context(), userID)
	if err != nil {
		if entity.CodeOf(err) == entity.CodeInvalidInput {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "store_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ListHotels filters hotels by the query parameters city, category,
// minPrice, maxPrice and maxGuests.
func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.HotelFilter{
		City:     q.Get("city"),
		Category: q.Get("category"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	}
	if raw := q.Get("maxGuests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", "maxGuests must be an integer", nil)
			return
		}
		filter.MaxGuests = n
	}

	hotels, err := h.hotels.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusBadGateway, "store_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

// GetHotel retrieves a single hotel by its ID, served from cache when warm.
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hotel, err := h.hotels.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "hotel_not_found", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

// ListRooms returns a hotel's available rooms, cheapest first.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rooms, err := h.hotels.ListRooms(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, "store_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ApproveRefund settles a refund transaction and releases its reservation.
func (h *Handler) ApproveRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}

	if err := h.saga.ApproveRefund(r.Context(), req.TransactionID, req.ReservationID); err != nil {
		if entity.CodeOf(err) == entity.CodeInvalidInput {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "store_error", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, RefundApprovalResponse{Status: "refund_processed"})
}

// GetSaga returns the latest audit-log entry for a booking saga. The saga
// ID is the reservation ID.
func (h *Handler) GetSaga(w http.ResponseWriter, r *http.Request) {
	if h.sagaLogRepo == nil {
		writeError(w, http.StatusServiceUnavailable, "saga_log_unavailable", "saga log persistence is not configured", nil)
		return
	}

	sagaID := chi.URLParam(r, "id")
	entry, err := h.sagaLogRepo.GetLatest(r.Context(), sagaID)
	if err != nil {
		if errors.Is(err, sagalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "saga_not_found", err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "saga_log_error", err.Error(), nil)
		return
	}

	errMessages := entry.ErrorMessages
	if errMessages == "" {
		errMessages = "[]"
	}
	writeJSON(w, http.StatusOK, SagaStatusResponse{
		SagaID:        entry.SagaID,
		Status:        string(entry.Status),
		CurrentStep:   entry.CurrentStep,
		ErrorMessages: json.RawMessage(errMessages),
		TraceID:       entry.TraceID,
		UpdatedAt:     entry.UpdatedAt,
	})
}

func mapReservationInput(dto *ReservationDTO) *coordinator.ReservationInput {
	if dto == nil {
		return nil
	}
	in := &coordinator.ReservationInput{
		HotelID:    dto.HotelID,
		UserID:     dto.UserID,
		CheckIn:    dto.CheckIn,
		CheckOut:   dto.CheckOut,
		Price:      dto.Price,
		TotalPrice: dto.TotalPrice,
		Nights:     dto.Nights,
		Notes:      dto.Notes,
	}
	if dto.Guests != nil {
		in.Guests = &entity.GuestCount{Adults: dto.Guests.Adults, Children: dto.Guests.Children}
	}
	return in
}

func mapTransactionInput(dto *TransactionDTO) *coordinator.TransactionInput {
	if dto == nil {
		return nil
	}
	return &coordinator.TransactionInput{
		UserID:      dto.UserID,
		Amount:      dto.Amount,
		Description: dto.Description,
	}
}

// writeDomainError maps coded domain errors to HTTP statuses. Uncoded
// domain errors get a handler-level lowercase code, matching the rest of
// the HTTP surface.
func writeDomainError(w http.ResponseWriter, err error) {
	var limit *entity.GuestLimitError
	if errors.As(err, &limit) {
		writeError(w, http.StatusBadRequest, "guest_limit_exceeded", err.Error(), map[string]any{
			"requested": limit.Requested,
			"max":       limit.Max,
		})
		return
	}

	code := entity.CodeOf(err)
	switch code {
	case entity.CodeInvalidInput, entity.CodeMissingFields, entity.CodeInvalidAmount:
		writeError(w, http.StatusBadRequest, string(code), err.Error(), entity.DetailsOf(err))
	case entity.CodeDuplicateRequest:
		writeError(w, http.StatusConflict, string(code), err.Error(), entity.DetailsOf(err))
	case entity.CodeTransactionFailed:
		writeError(w, http.StatusBadGateway, string(code), err.Error(), entity.DetailsOf(err))
	default:
		writeError(w, http.StatusBadGateway, "booking_failed", err.Error(), nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
		Details: details,
	})
}
