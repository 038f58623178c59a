package store

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelier/booking-saga/internal/booking-api/core/domain/entity"
	"github.com/hotelier/booking-saga/internal/docstore"
)

func TestTransactionsCreate(t *testing.T) {
	var posted entity.Transaction
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(posted)
	}))
	defer srv.Close()

	tx := NewTransactions(docstore.New(srv.URL))

	created, err := tx.Create(context.Background(), entity.Transaction{
		UserID:        "usr1",
		ReservationID: "res1",
		Amount:        240,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "txn"))
	assert.Equal(t, entity.TxnPending, created.Status)
	assert.Equal(t, entity.TypePayment, created.Type)
	assert.NotEmpty(t, created.CreatedAt)
}

func TestTransactionsCreateKeepsExplicitStatusAndType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var doc entity.Transaction
		_ = json.NewDecoder(r.Body).Decode(&doc)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	tx := NewTransactions(docstore.New(srv.URL))

	created, err := tx.Create(context.Background(), entity.Transaction{
		UserID:        "usr1",
		ReservationID: "res1",
		Amount:        240,
		Status:        entity.TxnFailed,
		Type:          entity.TypePaymentRecovery,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.TxnFailed, created.Status)
	assert.Equal(t, entity.TypePaymentRecovery, created.Type)
}

func TestTransactionsCreateMissingFields(t *testing.T) {
	tx := NewTransactions(docstore.New("http://unused"))

	_, err := tx.Create(context.Background(), entity.Transaction{Amount: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userId")
	assert.Contains(t, err.Error(), "reservationId")

	_, err = tx.Create(context.Background(), entity.Transaction{UserID: "usr1", ReservationID: "res1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestTransactionsCreateRejectsNonFiniteAmount(t *testing.T) {
	tx := NewTransactions(docstore.New("http://unused"))

	_, err := tx.Create(context.Background(), entity.Transaction{
		UserID:        "usr1",
		ReservationID: "res1",
		Amount:        math.NaN(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction amount")
}

func TestTransactionsCreateNotFoundShortCircuits(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no collection", http.StatusNotFound)
	}))
	defer srv.Close()

	tx := NewTransactions(docstore.New(srv.URL))

	_, err := tx.Create(context.Background(), entity.Transaction{
		UserID:        "usr1",
		ReservationID: "res1",
		Amount:        240,
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "404 must not be retried")
}

func TestTransactionsPatchAddsUpdatedAt(t *testing.T) {
	var patch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/transactions/txn1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		_, _ = w.Write([]byte(`{"id":"txn1","status":"completed"}`))
	}))
	defer srv.Close()

	tx := NewTransactions(docstore.New(srv.URL))

	updated, err := tx.Patch(context.Background(), "txn1", map[string]any{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnCompleted, updated.Status)
	assert.Equal(t, "completed", patch["status"])
	assert.NotEmpty(t, patch["updatedAt"])
}

func TestTransactionsListByReservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "res1", r.URL.Query().Get("reservationId"))
		_, _ = w.Write([]byte(`[{"id":"txn1","reservationId":"res1","type":"payment_recovery"}]`))
	}))
	defer srv.Close()

	tx := NewTransactions(docstore.New(srv.URL))

	out, err := tx.ListByReservation(context.Background(), "res1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.TypePaymentRecovery, out[0].Type)
}
