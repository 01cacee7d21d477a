package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Transaction and account identifiers
	"github.com/shopspring/decimal" // Precise monetary amounts
)

// TransactionType is the kind of movement applied to the account
type TransactionType string

const (
	Deposit    TransactionType = "Deposit"    // Adds the amount to the balance
	Withdrawal TransactionType = "Withdrawal" // Subtracts the amount from the balance
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

// Signed returns amount with the sign t applies to a balance
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Withdrawal {
		return amount.Neg()
	}
	return amount
}

// Transaction Model, immutable once recorded
type Transaction struct {
	ID           uuid.UUID       `json:"id"`           // Unique per transaction
	AccountID    uuid.UUID       `json:"accountId"`    // Owning account
	Sequence     int64           `json:"sequence"`     // 1-based position in the account log
	Type         TransactionType `json:"type"`         // Deposit or Withdrawal
	Amount       decimal.Decimal `json:"amount"`       // Always positive
	Timestamp    time.Time       `json:"timestamp"`    // Time the transaction was applied
	Description  string          `json:"description"`  // Free text, may be empty
	BalanceAfter decimal.Decimal `json:"balanceAfter"` // Account balance right after this transaction
}

// TransactionHistory is one page of the transaction log, newest first
type TransactionHistory struct {
	Items      []Transaction `json:"items"`      // Transactions in this page
	TotalCount int           `json:"totalCount"` // Length of the whole log
	Page       int           `json:"page"`       // Requested page, 1-based
	PageSize   int           `json:"pageSize"`   // Requested page size
	AccountID  uuid.UUID     `json:"accountId"`  // Owning account
}
