package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Precise monetary amounts
)

// JournalEntry Model, the audit mirror row of a recorded transaction
type JournalEntry struct {
	ID           string          `gorm:"primaryKey;size:36"`          // Transaction ID
	AccountID    string          `gorm:"size:36;index;not null"`      // Owning account
	Sequence     int64           `gorm:"index;not null"`              // Position in the account log
	Type         string          `gorm:"size:16;not null"`            // Deposit or Withdrawal
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Transaction amount
	BalanceAfter decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Balance right after the transaction
	Description  string          `gorm:"size:500"`                    // Free text
	Timestamp    time.Time       `gorm:"index;not null"`              // Time the transaction was applied
	CreatedAt    int64           `gorm:"autoCreateTime:milli"`        // Time the row was written in milliseconds
}

// TableName pins the journal table name
func (JournalEntry) TableName() string {
	return "ledger_journal"
}

// NewJournalEntry maps a transaction to its journal row
func NewJournalEntry(tx Transaction) JournalEntry {
	return JournalEntry{
		ID:           tx.ID.String(),
		AccountID:    tx.AccountID.String(),
		Sequence:     tx.Sequence,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		Timestamp:    tx.Timestamp,
	}
}
