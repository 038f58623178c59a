package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFieldsError(t *testing.T) {
	err := MissingFieldsError([]string{"checkIn", "guests"}, []string{"amount"})

	assert.Equal(t, CodeMissingFields, err.Code)
	assert.Equal(t, "missing required fields: reservation (checkIn, guests), transaction (amount)", err.Message)
	assert.Equal(t, []string{"checkIn", "guests"}, err.Details["reservation"])
	assert.Equal(t, []string{"amount"}, err.Details["transaction"])
}

func TestCodeOfSurvivesWrapping(t *testing.T) {
	inner := NewError(CodeTransactionFailed, "payment declined")
	wrapped := fmt.Errorf("saga aborted: %w", inner)

	assert.Equal(t, CodeTransactionFailed, CodeOf(wrapped))
}

func TestCodeOfUncodedError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))
}

func TestDetailsOf(t *testing.T) {
	err := NewError(CodeTransactionFailed, "boom").WithDetails(map[string]any{"reservationId": "res1"})
	wrapped := fmt.Errorf("outer: %w", err)

	details := DetailsOf(wrapped)
	require.NotNil(t, details)
	assert.Equal(t, "res1", details["reservationId"])

	assert.Nil(t, DetailsOf(fmt.Errorf("plain")))
}

func TestGuestLimitError(t *testing.T) {
	err := &GuestLimitError{Requested: 5, Max: 4}

	assert.Equal(t, "guest count 5 exceeds the hotel limit of 4", err.Error())
	assert.Equal(t, Code(""), CodeOf(err), "capacity failures carry no machine code")
}
