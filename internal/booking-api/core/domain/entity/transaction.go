package entity

// TransactionType tags what a transaction row represents.
type TransactionType string

const (
	TypePayment         TransactionType = "payment"
	TypeRefundProcessed TransactionType = "refund_processed"
	// TypePaymentRecovery marks the audit record written when a payment
	// failed and the reservation was rolled back. Never retried, never
	// deleted.
	TypePaymentRecovery TransactionType = "payment_recovery"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction mirrors the document stored in the /transactions collection.
// Amount is signed: negative values are refunds. Transactions are never
// physically removed.
type Transaction struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"userId"`
	ReservationID string                   `json:"reservationId"`
	Amount        float64                  `json:"amount"`
	Status        TransactionStatus        `json:"status"`
	Type          TransactionType          `json:"type"`
	Description   string                   `json:"description,omitempty"`
	ErrorDetails  *TransactionErrorDetails `json:"errorDetails,omitempty"`
	ProcessedAt   string                   `json:"processedAt,omitempty"`
	CreatedAt     string                   `json:"createdAt,omitempty"`
	UpdatedAt     string                   `json:"updatedAt,omitempty"`
}

// TransactionErrorDetails is attached to payment_recovery records so support
// can reconstruct what happened without trawling logs.
type TransactionErrorDetails struct {
	OriginalError  string `json:"originalError"`
	RollbackStatus string `json:"rollbackStatus"`
	RollbackError  string `json:"rollbackError,omitempty"`
}
