package payment

import (
	"time"

	domain "driver-license-portal/internal/domain/payment"
)

// Details is the method-specific payload (card number, PIN, account, ...).
type Details map[string]any

type Input struct {
	ApplicationID string
	Amount        any
	Method        string
	Details       Details
}

// Outcome is what a provider reports for an accepted payment.
type Outcome struct {
	Provider              string
	ProviderTransactionID string
	ProcessingFee         int64
}

type ResultDTO struct {
	TransactionID string          `json:"transactionId"`
	Amount        int64           `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Provider      string          `json:"provider"`
	ProcessingFee int64           `json:"processingFee"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	PaymentRecord *domain.Payment `json:"paymentRecord"`
}
