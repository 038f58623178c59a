// Package coordinator runs the reservation+payment saga: a sequence of
// independent document-store writes that must look atomic to the caller,
// with compensating actions on partial failure.
//
// The steps are strictly sequential, each depending on the identifier the
// previous one produced. Compensation is asymmetric: only a failed
// transaction write rolls the reservation back; a failed finalize merely
// downgrades the result to completed_with_warnings, because the financially
// significant writes already succeeded.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/booking-api/core/ports"
	"github.com/hotelier/booking-saga/internal/coordinator/sagalog"
	"github.com/hotelier/booking-saga/internal/pkg/retry"
)

var tracer = otel.Tracer("github.com/hotelier/booking-saga/internal/coordinator")

// Saga coordinates reservation and transaction creation against the
// document store.
type Saga struct {
	reservations ports.ReservationStore
	transactions ports.TransactionStore
	logRepo      sagalog.Repository // nil disables the audit trail

	rollbackAttempts int
	rollbackBase     time.Duration
	confirmWindow    time.Duration
	confirmInterval  time.Duration
	settleDelay      time.Duration
}

// Option tunes saga timing. Production uses the defaults; tests shrink them.
type Option func(*Saga)

// WithRollbackPolicy sets the soft-delete attempt count and the base of its
// exponential backoff.
func WithRollbackPolicy(attempts int, base time.Duration) Option {
	return func(s *Saga) {
		s.rollbackAttempts = attempts
		s.rollbackBase = base
	}
}

// WithConfirmWindow bounds the read-your-write confirmation poll after the
// reservation is created.
func WithConfirmWindow(window, interval time.Duration) Option {
	return func(s *Saga) {
		s.confirmWindow = window
		s.confirmInterval = interval
	}
}

// WithSettleDelay sets the pause between the two writes of a refund
// approval.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Saga) { s.settleDelay = d }
}

func New(reservations ports.ReservationStore, transactions ports.TransactionStore, logRepo sagalog.Repository, opts ...Option) *Saga {
	s := &Saga{
		reservations:     reservations,
		transactions:     transactions,
		logRepo:          logRepo,
		rollbackAttempts: 3,
		rollbackBase:     time.Second,
		confirmWindow:    1500 * time.Millisecond,
		confirmInterval:  75 * time.Millisecond,
		settleDelay:      50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReservationWithTransaction runs the booking saga:
//
//  1. create the reservation (capacity-checked by the store adapter)
//  2. confirm the write is visible (bounded poll, non-fatal on timeout)
//  3. create the payment transaction referencing the reservation
//  4. finalize both records (best-effort)
//
// A failure in step 3 triggers the compensation ladder and surfaces a
// TRANSACTION_FAILED error; a failure in step 4 resolves successfully with
// StatusCompletedWithWarnings.
func (s *Saga) CreateReservationWithTransaction(ctx context.Context, resIn *ReservationInput, txnIn *TransactionInput) (*BookingResult, error) {
	if resIn == nil || txnIn == nil {
		return nil, entity.NewError(entity.CodeInvalidInput, "reservation and transaction data are required")
	}

	missingRes := missingReservationFields(resIn)
	missingTxn := missingTransactionFields(txnIn)
	if len(missingRes) > 0 || len(missingTxn) > 0 {
		return nil, entity.MissingFieldsError(missingRes, missingTxn)
	}

	amount := *txnIn.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, entity.NewError(entity.CodeInvalidAmount, "transaction amount must be a positive number")
	}

	ctx, span := tracer.Start(ctx, "reservation_saga")
	defer span.End()

	// Step 1: create the reservation.
	reservation, err := s.reservations.Create(ctx, entity.Reservation{
		HotelID:    resIn.HotelID,
		UserID:     resIn.UserID,
		CheckIn:    resIn.CheckIn,
		CheckOut:   resIn.CheckOut,
		Guests:     *resIn.Guests,
		Price:      resIn.Price,
		TotalPrice: resIn.TotalPrice,
		Nights:     resIn.Nights,
		Notes:      resIn.Notes,
	})
	if err != nil {
		var limit *entity.GuestLimitError
		if errors.As(err, &limit) {
			return nil, err
		}
		return nil, fmt.Errorf("reservation creation failed: %w", err)
	}
	reservationID := reservation.ID

	s.logTransition(ctx, reservationID, sagalog.StatusStarted, "", s.payload(resIn, txnIn), nil)
	s.logTransition(ctx, reservationID, sagalog.StatusStepDone, stepCreateReservation, "", nil)
	slog.InfoContext(ctx, "reservation created", "reservation_id", reservationID, "hotel_id", resIn.HotelID)

	// Step 2: the store gives no read-your-writes guarantee, so poll until
	// the reservation is readable before the dependent write. Timing out is
	// not fatal; the transaction write will surface a real inconsistency.
	if !s.awaitVisible(ctx, reservationID) {
		slog.WarnContext(ctx, "reservation not yet visible, proceeding anyway", "reservation_id", reservationID)
	}
	s.logTransition(ctx, reservationID, sagalog.StatusStepDone, stepConfirmVisible, "", nil)

	// Step 3: create the payment transaction.
	transaction, err := s.transactions.Create(ctx, entity.Transaction{
		UserID:        txnIn.UserID,
		ReservationID: reservationID,
		Amount:        amount,
		Status:        entity.TxnPending,
		Type:          entity.TypePayment,
		Description:   txnIn.Description,
	})
	if err != nil {
		return nil, s.compensate(ctx, reservationID, txnIn.UserID, amount, err)
	}
	s.logTransition(ctx, reservationID, sagalog.StatusStepDone, stepCreateTransaction, "", nil)
	slog.InfoContext(ctx, "transaction created", "reservation_id", reservationID, "transaction_id", transaction.ID)

	// Step 4: finalize. Both records exist and the payment went through, so
	// a failure here downgrades the result instead of failing it.
	if err := s.finalize(ctx, reservation, transaction); err != nil {
		slog.ErrorContext(ctx, "failed to finalize booking records", "reservation_id", reservationID, "error", err)
		s.logTransition(ctx, reservationID, sagalog.StatusCompleted, stepFinalize, "", []string{err.Error()})
		return &BookingResult{Reservation: reservation, Transaction: transaction, Status: StatusCompletedWithWarnings}, nil
	}

	s.logTransition(ctx, reservationID, sagalog.StatusCompleted, stepFinalize, "", nil)
	return &BookingResult{Reservation: reservation, Transaction: transaction, Status: StatusCompleted}, nil
}

func missingReservationFields(in *ReservationInput) []string {
	var missing []string
	if in.HotelID == "" {
		missing = append(missing, "hotelId")
	}
	if in.UserID == "" {
		missing = append(missing, "userId")
	}
	if in.CheckIn == "" {
		missing = append(missing, "checkIn")
	}
	if in.CheckOut == "" {
		missing = append(missing, "checkOut")
	}
	if in.Guests == nil {
		missing = append(missing, "guests")
	}
	return missing
}

func missingTransactionFields(in *TransactionInput) []string {
	var missing []string
	if in.UserID == "" {
		missing = append(missing, "userId")
	}
	if in.Amount == nil {
		missing = append(missing, "amount")
	}
	return missing
}

// awaitVisible polls the reservation until the store serves it back or the
// confirmation window elapses.
func (s *Saga) awaitVisible(ctx context.Context, id string) bool {
	deadline := time.Now().Add(s.confirmWindow)
	for {
		if _, err := s.reservations.GetByID(ctx, id); err == nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(s.confirmInterval):
		}
	}
}

func (s *Saga) finalize(ctx context.Context, reservation *entity.Reservation, transaction *entity.Transaction) error {
	confirmed := entity.NewStatus(entity.PhaseConfirmed)
	if _, err := s.reservations.Patch(ctx, reservation.ID, map[string]any{"status": confirmed}); err != nil {
		return fmt.Errorf("confirm reservation: %w", err)
	}
	reservation.Status = confirmed

	processedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.transactions.Patch(ctx, transaction.ID, map[string]any{
		"status":      entity.TxnCompleted,
		"processedAt": processedAt,
	}); err != nil {
		return fmt.Errorf("complete transaction: %w", err)
	}
	transaction.Status = entity.TxnCompleted
	transaction.ProcessedAt = processedAt
	return nil
}

// compensate unwinds a reservation whose payment write failed: soft delete
// with exponential backoff, one hard delete as last resort, then a
// payment_recovery audit record. Always returns the TRANSACTION_FAILED
// error for the caller.
func (s *Saga) compensate(ctx context.Context, reservationID, userID string, amount float64, txnErr error) error {
	slog.ErrorContext(ctx, "transaction failed, rolling back reservation",
		"reservation_id", reservationID, "error", txnErr)
	s.logTransition(ctx, reservationID, sagalog.StatusCompensating, stepCreateTransaction, "", []string{txnErr.Error()})

	rollback := RollbackFailed
	var lastRollbackErr error

softDelete:
	for attempt := 1; attempt <= s.rollbackAttempts; attempt++ {
		err := s.reservations.SoftDelete(ctx, reservationID, "payment failed: "+txnErr.Error())
		if err == nil {
			rollback = RollbackSoftDeleted
			break
		}
		lastRollbackErr = err
		slog.WarnContext(ctx, "soft delete attempt failed",
			"reservation_id", reservationID, "attempt", attempt, "error", err)

		if attempt == s.rollbackAttempts {
			break
		}
		select {
		case <-ctx.Done():
			lastRollbackErr = ctx.Err()
			break softDelete
		case <-time.After(retry.Exponential(s.rollbackBase, attempt)):
		}
	}

	if rollback == RollbackFailed {
		if err := s.reservations.Delete(ctx, reservationID); err == nil {
			rollback = RollbackHardDeleted
			slog.InfoContext(ctx, "hard delete succeeded after soft delete failures", "reservation_id", reservationID)
		} else {
			lastRollbackErr = err
			slog.ErrorContext(ctx, "hard delete failed, reservation may still exist",
				"reservation_id", reservationID, "error", err)
		}
	}

	// Audit record. Its own failure is logged and swallowed so it never
	// masks the original transaction error.
	details := &entity.TransactionErrorDetails{
		OriginalError:  txnErr.Error(),
		RollbackStatus: string(rollback),
	}
	if lastRollbackErr != nil {
		details.RollbackError = lastRollbackErr.Error()
	}
	if _, err := s.transactions.Create(ctx, entity.Transaction{
		UserID:        userID,
		ReservationID: reservationID,
		Amount:        amount,
		Status:        entity.TxnFailed,
		Type:          entity.TypePaymentRecovery,
		Description:   fmt.Sprintf("payment failed: %v (rollback: %s)", txnErr, rollback),
		ErrorDetails:  details,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to write payment_recovery record",
			"reservation_id", reservationID, "error", err)
	}

	errMessages := []string{txnErr.Error()}
	if lastRollbackErr != nil {
		errMessages = append(errMessages, lastRollbackErr.Error())
	}
	s.logTransition(ctx, reservationID, sagalog.StatusFailed, stepCreateTransaction, "", errMessages)

	var message string
	if rollback == RollbackFailed {
		message = fmt.Sprintf("transaction failed and rollback did not complete: reservation %s may still exist, contact support", reservationID)
	} else {
		message = fmt.Sprintf("transaction failed: reservation %s was cancelled, please retry", reservationID)
	}
	return entity.NewError(entity.CodeTransactionFailed, message).WithDetails(map[string]any{
		"reservationId":  reservationID,
		"rollbackStatus": string(rollback),
		"originalError":  txnErr.Error(),
	})
}

// ApproveRefund settles a refund: the transaction flips to
// completed/refund_processed, then after a short settle pause the
// reservation is marked refund_processed. The pause gives the store a beat
// to absorb the first write before the second lands.
func (s *Saga) ApproveRefund(ctx context.Context, transactionID, reservationID string) error {
	if transactionID == "" {
		return entity.NewError(entity.CodeInvalidInput, "transaction id is required")
	}

	processedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.transactions.Patch(ctx, transactionID, map[string]any{
		"status":      entity.TxnCompleted,
		"type":        entity.TypeRefundProcessed,
		"processedAt": processedAt,
	}); err != nil {
		return fmt.Errorf("approve refund %s: %w", transactionID, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.settleDelay):
	}

	if reservationID != "" {
		if _, err := s.reservations.Patch(ctx, reservationID, map[string]any{
			"status": entity.Status{
				Booking:  entity.PhaseRefundProcessed,
				CheckIn:  entity.PhaseCancelled,
				CheckOut: entity.PhaseCancelled,
			},
		}); err != nil {
			return fmt.Errorf("mark reservation %s refunded: %w", reservationID, err)
		}
	}
	return nil
}

func (s *Saga) payload(resIn *ReservationInput, txnIn *TransactionInput) string {
	raw, err := json.Marshal(map[string]any{
		"reservation": map[string]any{
			"hotelId":  resIn.HotelID,
			"userId":   resIn.UserID,
			"checkIn":  resIn.CheckIn,
			"checkOut": resIn.CheckOut,
			"guests":   resIn.Guests,
		},
		"transaction": map[string]any{
			"userId": txnIn.UserID,
		},
	})
	if err != nil {
		return ""
	}
	return string(raw)
}

// logTransition appends a saga-log row. A nil repository or a failed save
// only logs; the audit trail never fails the business flow.
func (s *Saga) logTransition(ctx context.Context, sagaID string, status sagalog.Status, step, payload string, errs []string) {
	if s.logRepo == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, sagaID, status, step, payload, errs)
	if err := s.logRepo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save saga log entry", "saga_id", sagaID, "status", status, "error", err)
	}
}
