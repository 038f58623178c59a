package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/booking-api/core/ports"
	"github.com/hotelier/booking-saga/internal/docstore"
	"github.com/hotelier/booking-saga/internal/pkg/ident"
	"github.com/hotelier/booking-saga/internal/pkg/retry"
)

// Transactions implements ports.TransactionStore.
type Transactions struct {
	docs *docstore.Client

	// createPolicy: 3 attempts, linear backoff. A transaction write is the
	// financially significant step, so transient store failures are retried
	// harder here than anywhere else.
	createPolicy retry.Policy
}

var _ ports.TransactionStore = (*Transactions)(nil)

func NewTransactions(docs *docstore.Client) *Transactions {
	return &Transactions{
		docs:         docs,
		createPolicy: linearPolicy(3, time.Second),
	}
}

// Create persists a new transaction. userId, reservationId and a non-zero
// finite amount are required; status and type default to pending/payment.
func (t *Transactions) Create(ctx context.Context, input entity.Transaction) (*entity.Transaction, error) {
	var missing []string
	if input.UserID == "" {
		missing = append(missing, "userId")
	}
	if input.Amount == 0 {
		missing = append(missing, "amount")
	}
	if input.ReservationID == "" {
		missing = append(missing, "reservationId")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("transaction missing required fields: %s", strings.Join(missing, ", "))
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, fmt.Errorf("invalid transaction amount")
	}

	now := nowISO()
	doc := input
	doc.ID = ident.New(ident.PrefixTransaction)
	if doc.Status == "" {
		doc.Status = entity.TxnPending
	}
	if doc.Type == "" {
		doc.Type = entity.TypePayment
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	var created entity.Transaction
	err := t.createPolicy.Do(ctx, func(ctx context.Context) error {
		return t.docs.Create(ctx, colTransactions, doc, &created)
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &created, nil
}

func (t *Transactions) Patch(ctx context.Context, id string, fields map[string]any) (*entity.Transaction, error) {
	patch := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		patch[k] = v
	}
	patch["updatedAt"] = nowISO()

	var updated entity.Transaction
	if err := t.docs.Patch(ctx, colTransactions, id, patch, &updated); err != nil {
		return nil, fmt.Errorf("patch transaction %s: %w", id, err)
	}
	return &updated, nil
}

// ListByReservation returns every transaction referencing a reservation,
// payment_recovery audit records included.
func (t *Transactions) ListByReservation(ctx context.Context, reservationID string) ([]entity.Transaction, error) {
	var out []entity.Transaction
	q := docstore.NewQuery().Eq("reservationId", reservationID)
	if err := t.docs.List(ctx, colTransactions, q, &out); err != nil {
		return nil, fmt.Errorf("list transactions for reservation %s: %w", reservationID, err)
	}
	return out, nil
}
