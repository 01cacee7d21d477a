package db

import (
	"context" // Context for database operations
	"fmt"     // Error wrapping

	"ledger_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Journal mirrors recorded transactions into the ledger_journal table.
// Rows are only ever inserted; the ledger never reads them back.
type Journal struct {
	db *gorm.DB // Database handle
}

// NewJournal creates a journal writing through db
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Publish inserts the journal row for tx
func (j *Journal) Publish(ctx context.Context, tx domain.Transaction) error {
	entry := domain.NewJournalEntry(tx) // Map transaction to row
	if err := j.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("journal transaction %s: %w", tx.ID, err) // Return error to caller
	}
	return nil
}
