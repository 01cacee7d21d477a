package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Account identifier
	"github.com/shopspring/decimal" // Precise monetary amounts
)

// AccountSummary is a snapshot of the account metadata
type AccountSummary struct {
	ID               uuid.UUID       `json:"id"`               // Account ID
	Reference        string          `json:"reference"`        // IBAN-like external reference
	Balance          decimal.Decimal `json:"balance"`          // Current balance
	CreatedAt        time.Time       `json:"createdAt"`        // Account creation time
	UpdatedAt        time.Time       `json:"updatedAt"`        // Last successful mutation
	TransactionCount int             `json:"transactionCount"` // Length of the transaction log
}

// Balance is a point-in-time read of the account balance
type Balance struct {
	Balance   decimal.Decimal `json:"balance"`   // Current balance
	AsOf      time.Time       `json:"asOf"`      // Time of the read
	AccountID uuid.UUID       `json:"accountId"` // Account ID
	Reference string          `json:"reference"` // IBAN-like external reference
}
