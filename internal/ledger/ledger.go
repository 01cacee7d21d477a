// Package ledger holds the state of the single account served by this process
// and the only code allowed to change it.
//
// A Ledger serializes every operation, reads included, behind one mutex scoped
// to the whole account. Balance and log always change together inside that
// section, so a withdrawal's check-then-debit is atomic and no reader sees one
// without the other.
package ledger

import (
	"fmt"          // Error messages
	"sync"         // Account lock
	"time"         // Timestamps
	"unicode/utf8" // Description length in characters

	"github.com/google/uuid"        // Account and transaction identifiers
	"github.com/shopspring/decimal" // Precise monetary amounts

	"ledger_system/internal/domain" // Importing domain models
)

const (
	MaxDescriptionLength = 500 // Characters, not bytes
	DefaultPage          = 1   // First page
	DefaultPageSize      = 50  // Page size when none is given
	MaxPageSize          = 100 // Largest page a caller may ask for
	maxIDAttempts        = 8   // Fresh ids tried before giving up on a colliding generator
)

// Ledger is the account aggregate. Construct it once with New and share the
// pointer; the zero value is not usable.
type Ledger struct {
	id        uuid.UUID        // Account ID
	reference string           // IBAN-like reference
	now       func() time.Time // Clock
	newID     func() uuid.UUID // Transaction ID generator

	mu        sync.Mutex
	balance   decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
	log       []domain.Transaction
	index     map[uuid.UUID]int // transaction id -> position in log
}

// Option customizes a Ledger at construction.
type Option func(*Ledger)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces uuid.New as the source of transaction ids.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates the account with a zero balance and an empty log.
func New(accountID uuid.UUID, reference string, opts ...Option) *Ledger {
	l := &Ledger{
		id:        accountID,
		reference: reference,
		now:       time.Now,
		newID:     uuid.New,
		balance:   decimal.Zero,
		index:     make(map[uuid.UUID]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.createdAt = l.now() // Account opens now
	l.updatedAt = l.createdAt
	return l
}

// AccountID returns the fixed id of the account.
func (l *Ledger) AccountID() uuid.UUID {
	return l.id
}

// RecordTransaction applies a deposit or withdrawal and appends it to the log.
//
// Input is validated before the lock is taken. A withdrawal larger than the
// current balance fails with ErrInsufficientFunds and changes nothing.
func (l *Ledger) RecordTransaction(txType domain.TransactionType, amount decimal.Decimal, description string) (domain.Transaction, error) {
	if err := validateTransaction(txType, amount, description); err != nil {
		return domain.Transaction{}, err // Reject malformed input untouched
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Check balance for withdrawal
	if txType == domain.Withdrawal && amount.GreaterThan(l.balance) {
		return domain.Transaction{}, &Error{
			Kind:    KindInsufficientFunds,
			Message: fmt.Sprintf("insufficient balance for withdrawal: balance %s, requested %s", l.balance, amount),
		}
	}

	// Timestamps never go backwards, so log order is also timestamp order.
	now := l.now()
	if now.Before(l.updatedAt) {
		now = l.updatedAt
	}

	id, err := l.freshID()
	if err != nil {
		return domain.Transaction{}, err // Nothing applied yet
	}

	l.balance = l.balance.Add(txType.Signed(amount)) // Apply the movement
	l.updatedAt = now

	tx := domain.Transaction{
		ID:           id,
		AccountID:    l.id,
		Sequence:     int64(len(l.log)) + 1, // 1-based position in the log
		Type:         txType,
		Amount:       amount,
		Timestamp:    now,
		Description:  description,
		BalanceAfter: l.balance,
	}
	l.index[id] = len(l.log)
	l.log = append(l.log, tx)
	return tx, nil
}

// freshID draws ids until one is unused. The caller holds l.mu.
func (l *Ledger) freshID() (uuid.UUID, error) {
	for range maxIDAttempts {
		id := l.newID()
		if _, taken := l.index[id]; !taken {
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxIDAttempts)
}

// GetBalance returns the current balance stamped with the read time.
func (l *Ledger) GetBalance() domain.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.Balance{
		Balance:   l.balance,
		AsOf:      l.now(), // Read time, not last update
		AccountID: l.id,
		Reference: l.reference,
	}
}

// GetAccountSummary returns the account metadata and the log length.
func (l *Ledger) GetAccountSummary() domain.AccountSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.AccountSummary{
		ID:               l.id,
		Reference:        l.reference,
		Balance:          l.balance,
		CreatedAt:        l.createdAt,
		UpdatedAt:        l.updatedAt,
		TransactionCount: len(l.log), // Log length
	}
}

// GetTransactionHistory returns one page of the log, newest first. Zero page
// or pageSize select the defaults. A page past the end is empty, not an error.
func (l *Ledger) GetTransactionHistory(page, pageSize int) (domain.TransactionHistory, error) {
	page, pageSize, err := normalizePage(page, pageSize)
	if err != nil {
		return domain.TransactionHistory{}, err // Invalid paging
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.log) // Length of the whole log
	items := make([]domain.Transaction, 0, pageSize)
	if offset := page - 1; offset <= total/pageSize {
		// Walking the log backwards yields descending timestamps with ties
		// in reverse insertion order.
		for i := offset * pageSize; i < total && len(items) < pageSize; i++ {
			items = append(items, l.log[total-1-i])
		}
	}

	return domain.TransactionHistory{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		AccountID:  l.id,
	}, nil
}

// GetTransaction looks a transaction up by id. An unknown id yields an error
// of kind KindNotFound.
func (l *Ledger) GetTransaction(id uuid.UUID) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id] // Look up position by ID
	if !ok {
		return domain.Transaction{}, &Error{Kind: KindNotFound, Message: fmt.Sprintf("transaction %s not found", id)}
	}
	return l.log[i], nil
}

// Verify replays the log from a zero balance and checks every balance
// snapshot along the way as well as the current balance.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	running := decimal.Zero
	for i, tx := range l.log {
		if tx.Sequence != int64(i)+1 {
			return fmt.Errorf("%w: %s has sequence %d at position %d", ErrInconsistent, tx.ID, tx.Sequence, i+1)
		}
		running = running.Add(tx.Type.Signed(tx.Amount)) // Replay the movement
		if running.IsNegative() {
			return fmt.Errorf("%w: negative balance %s after %s", ErrInconsistent, running, tx.ID)
		}
		if !running.Equal(tx.BalanceAfter) {
			return fmt.Errorf("%w: %s records %s, replay gives %s", ErrInconsistent, tx.ID, tx.BalanceAfter, running)
		}
	}
	if !running.Equal(l.balance) {
		return fmt.Errorf("%w: balance %s, replay gives %s", ErrInconsistent, l.balance, running)
	}
	return nil
}

func validateTransaction(txType domain.TransactionType, amount decimal.Decimal, description string) error {
	if !txType.Valid() {
		return invalid("type", "unknown transaction type %q", string(txType))
	}
	if !amount.IsPositive() {
		return invalid("amount", "amount must be positive")
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return invalid("description", "description cannot exceed %d characters, got %d", MaxDescriptionLength, n)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
