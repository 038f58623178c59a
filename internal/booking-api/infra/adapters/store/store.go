// Package store implements the core ports on top of the JSON document
// store. Each adapter owns the retry policy its call site historically
// used — the policies differ on purpose and must not be unified silently.
package store

import (
	"net/http"
	"time"

	"github.com/hotelier/booking-saga/internal/pkg/retry"
)

const (
	colReservations = "reservations"
	colTransactions = "transactions"
	colHotels       = "hotels"
	colRooms        = "rooms"
	colUsers        = "users"
)

// nonRetryable are the statuses every policy short-circuits on: the target
// is gone or access is denied, and retrying cannot change that.
var nonRetryable = []int{http.StatusUnauthorized, http.StatusNotFound}

func linearPolicy(attempts int, base time.Duration) retry.Policy {
	return retry.Policy{
		MaxAttempts:  attempts,
		BaseDelay:    base,
		Backoff:      retry.Linear,
		NonRetryable: nonRetryable,
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
