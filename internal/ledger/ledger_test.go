package ledger

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger_system/internal/domain"
)

var testAccountID = uuid.MustParse("12345678-1234-5678-9abc-123456789012")

const testReference = "ES9121000418450200051332"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLedger(opts ...Option) *Ledger {
	return New(testAccountID, testReference, opts...)
}

func record(t *testing.T, l *Ledger, txType domain.TransactionType, amount, description string) domain.Transaction {
	t.Helper()
	tx, err := l.RecordTransaction(txType, dec(amount), description)
	require.NoError(t, err)
	return tx
}

func TestNew_StartsEmpty(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))

	summary := l.GetAccountSummary()
	assert.Equal(t, testAccountID, summary.ID)
	assert.Equal(t, testReference, summary.Reference)
	assert.True(t, summary.Balance.IsZero())
	assert.Equal(t, 0, summary.TransactionCount)
	assert.Equal(t, clock.Now(), summary.CreatedAt)
	assert.Equal(t, summary.CreatedAt, summary.UpdatedAt)
	assert.Equal(t, testAccountID, l.AccountID())
}

func TestRecordTransaction_DepositIncreasesBalance(t *testing.T) {
	l := newTestLedger()

	tx := record(t, l, domain.Deposit, "100.50", "Test deposit")

	assert.True(t, dec("100.50").Equal(tx.BalanceAfter), "balanceAfter=%s", tx.BalanceAfter)
	assert.True(t, dec("100.50").Equal(l.GetBalance().Balance))
	assert.Equal(t, testAccountID, tx.AccountID)
	assert.Equal(t, domain.Deposit, tx.Type)
	assert.Equal(t, "Test deposit", tx.Description)
	assert.NotEqual(t, uuid.Nil, tx.ID)
}

func TestRecordTransaction_WithdrawalDecreasesBalance(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "200", "Initial deposit")

	tx := record(t, l, domain.Withdrawal, "75", "Test withdrawal")

	assert.True(t, dec("125").Equal(tx.BalanceAfter), "balanceAfter=%s", tx.BalanceAfter)
}

func TestRecordTransaction_WithdrawWholeBalance(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "42.42", "")

	tx := record(t, l, domain.Withdrawal, "42.42", "")

	assert.True(t, tx.BalanceAfter.IsZero())
}

func TestRecordTransaction_InsufficientFundsLeavesStateUnchanged(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))
	record(t, l, domain.Deposit, "50", "seed")
	before := l.GetAccountSummary()

	clock.Advance(time.Minute)
	_, err := l.RecordTransaction(domain.Withdrawal, dec("50.01"), "Overdraft attempt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	assert.False(t, errors.Is(err, ErrValidation))

	after := l.GetAccountSummary()
	assert.True(t, before.Balance.Equal(after.Balance))
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, before.TransactionCount, after.TransactionCount)
}

func TestRecordTransaction_WithdrawalFromEmptyAccount(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordTransaction(domain.Withdrawal, dec("100"), "Overdraft")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, l.GetAccountSummary().TransactionCount)
}

func TestRecordTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		txType      domain.TransactionType
		amount      string
		description string
		field       string
	}{
		{name: "zero amount", txType: domain.Deposit, amount: "0", field: "amount"},
		{name: "negative amount", txType: domain.Deposit, amount: "-1", field: "amount"},
		{name: "negative withdrawal", txType: domain.Withdrawal, amount: "-0.01", field: "amount"},
		{name: "unknown type", txType: domain.TransactionType("Transfer"), amount: "10", field: "type"},
		{name: "empty type", txType: "", amount: "10", field: "type"},
		{name: "description too long", txType: domain.Deposit, amount: "10", description: strings.Repeat("a", 501), field: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()

			_, err := l.RecordTransaction(tt.txType, dec(tt.amount), tt.description)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.field, lerr.Field)
			assert.Equal(t, 0, l.GetAccountSummary().TransactionCount)
			assert.True(t, l.GetBalance().Balance.IsZero())
		})
	}
}

func TestRecordTransaction_DescriptionLengthCountsCharacters(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordTransaction(domain.Deposit, dec("1"), strings.Repeat("é", MaxDescriptionLength))
	assert.NoError(t, err)

	_, err = l.RecordTransaction(domain.Deposit, dec("1"), strings.Repeat("é", MaxDescriptionLength+1))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordTransaction_UpdatesTimestamps(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))
	created := clock.Now()

	clock.Advance(5 * time.Second)
	tx := record(t, l, domain.Deposit, "10", "")

	summary := l.GetAccountSummary()
	assert.Equal(t, created, summary.CreatedAt)
	assert.Equal(t, clock.Now(), summary.UpdatedAt)
	assert.Equal(t, clock.Now(), tx.Timestamp)
}

func TestRecordTransaction_TimestampsNeverGoBackwards(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	times := []time.Time{now, now.Add(time.Hour), now.Add(time.Minute)}
	i := 0
	l := newTestLedger(WithClock(func() time.Time {
		ts := times[i]
		if i < len(times)-1 {
			i++
		}
		return ts
	}))

	first := record(t, l, domain.Deposit, "1", "first")
	second := record(t, l, domain.Deposit, "1", "second")

	assert.Equal(t, now.Add(time.Hour), first.Timestamp)
	assert.Equal(t, first.Timestamp, second.Timestamp)
}

func TestRecordTransaction_RegeneratesDuplicateIDs(t *testing.T) {
	dup := uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")
	fresh := uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb")
	ids := []uuid.UUID{dup, dup, fresh}
	l := newTestLedger(WithIDGenerator(func() uuid.UUID {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first := record(t, l, domain.Deposit, "1", "")
	second := record(t, l, domain.Deposit, "1", "")

	assert.Equal(t, dup, first.ID)
	assert.Equal(t, fresh, second.ID)
}

func TestRecordTransaction_GivesUpOnStuckIDGenerator(t *testing.T) {
	stuck := uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")
	calls := 0
	l := newTestLedger(WithIDGenerator(func() uuid.UUID {
		calls++
		return stuck
	}))
	record(t, l, domain.Deposit, "10", "")
	calls = 0

	_, err := l.RecordTransaction(domain.Deposit, dec("5"), "")

	assert.ErrorIs(t, err, ErrIDExhausted)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, maxIDAttempts, calls)
	assert.True(t, l.GetBalance().Balance.Equal(dec("10")))
	assert.Equal(t, 1, l.GetAccountSummary().TransactionCount)
	assert.NoError(t, l.Verify())
}

func TestRecordTransaction_AssignsSequenceInLogOrder(t *testing.T) {
	l := newTestLedger()

	first := record(t, l, domain.Deposit, "10", "")
	_, err := l.RecordTransaction(domain.Withdrawal, dec("50"), "")
	require.Error(t, err)
	second := record(t, l, domain.Withdrawal, "4", "")

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
}

func TestBalanceRoundTrip(t *testing.T) {
	l := newTestLedger()

	record(t, l, domain.Deposit, "1000", "Initial deposit")
	assert.True(t, dec("1000").Equal(l.GetBalance().Balance))

	record(t, l, domain.Withdrawal, "250", "ATM withdrawal")
	assert.True(t, dec("750").Equal(l.GetBalance().Balance))

	history, err := l.GetTransactionHistory(1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, history.TotalCount)
}

func TestGetBalance_AsOfIsReadTime(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))
	record(t, l, domain.Deposit, "10", "")

	clock.Advance(time.Hour)
	balance := l.GetBalance()

	assert.Equal(t, clock.Now(), balance.AsOf)
	assert.Equal(t, testAccountID, balance.AccountID)
	assert.Equal(t, testReference, balance.Reference)
}

func TestGetTransactionHistory_NewestFirst(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))
	record(t, l, domain.Deposit, "100", "First")
	clock.Advance(time.Second)
	record(t, l, domain.Deposit, "200", "Second")

	history, err := l.GetTransactionHistory(1, 50)

	require.NoError(t, err)
	assert.Equal(t, 2, history.TotalCount)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "Second", history.Items[0].Description)
	assert.Equal(t, "First", history.Items[1].Description)
	assert.Equal(t, 1, history.Page)
	assert.Equal(t, 50, history.PageSize)
	assert.Equal(t, testAccountID, history.AccountID)
}

func TestGetTransactionHistory_EqualTimestampsInReverseInsertionOrder(t *testing.T) {
	clock := newFakeClock()
	l := newTestLedger(WithClock(clock.Now))
	for _, d := range []string{"a", "b", "c"} {
		record(t, l, domain.Deposit, "1", d)
	}

	history, err := l.GetTransactionHistory(1, 10)

	require.NoError(t, err)
	require.Len(t, history.Items, 3)
	assert.Equal(t, "c", history.Items[0].Description)
	assert.Equal(t, "b", history.Items[1].Description)
	assert.Equal(t, "a", history.Items[2].Description)
}

func TestGetTransactionHistory_Pages(t *testing.T) {
	l := newTestLedger()
	for _, d := range []string{"1", "2", "3", "4", "5"} {
		record(t, l, domain.Deposit, "1", d)
	}

	tests := []struct {
		page, pageSize int
		want           []string
	}{
		{page: 1, pageSize: 2, want: []string{"5", "4"}},
		{page: 2, pageSize: 2, want: []string{"3", "2"}},
		{page: 3, pageSize: 2, want: []string{"1"}},
		{page: 4, pageSize: 2, want: []string{}},
		{page: 1, pageSize: 5, want: []string{"5", "4", "3", "2", "1"}},
		{page: 2, pageSize: 5, want: []string{}},
	}

	for _, tt := range tests {
		history, err := l.GetTransactionHistory(tt.page, tt.pageSize)
		require.NoError(t, err)

		got := make([]string, 0, len(history.Items))
		for _, tx := range history.Items {
			got = append(got, tx.Description)
		}
		assert.Equal(t, tt.want, got, "page=%d pageSize=%d", tt.page, tt.pageSize)
		assert.Equal(t, 5, history.TotalCount)
	}
}

func TestGetTransactionHistory_OutOfRangePageIsEmpty(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "100", "First")
	record(t, l, domain.Deposit, "200", "Second")

	history, err := l.GetTransactionHistory(100, 50)

	require.NoError(t, err)
	assert.NotNil(t, history.Items)
	assert.Empty(t, history.Items)
	assert.Equal(t, 2, history.TotalCount)
	assert.Equal(t, 100, history.Page)
}

func TestGetTransactionHistory_Defaults(t *testing.T) {
	l := newTestLedger()

	history, err := l.GetTransactionHistory(0, 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultPage, history.Page)
	assert.Equal(t, DefaultPageSize, history.PageSize)
	assert.NotNil(t, history.Items)
}

func TestGetTransactionHistory_InvalidPaging(t *testing.T) {
	l := newTestLedger()

	for _, tc := range []struct{ page, pageSize int }{
		{-1, 10},
		{1, -1},
		{1, MaxPageSize + 1},
	} {
		_, err := l.GetTransactionHistory(tc.page, tc.pageSize)
		assert.ErrorIs(t, err, ErrValidation, "page=%d pageSize=%d", tc.page, tc.pageSize)
	}

	_, err := l.GetTransactionHistory(1, MaxPageSize)
	assert.NoError(t, err)
}

func TestGetTransactionHistory_ReturnsCopy(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "10", "original")

	history, err := l.GetTransactionHistory(1, 10)
	require.NoError(t, err)
	history.Items[0].Description = "mutated"

	again, err := l.GetTransactionHistory(1, 10)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Items[0].Description)
}

func TestGetTransaction(t *testing.T) {
	l := newTestLedger()
	deposit := record(t, l, domain.Deposit, "300", "deposit")
	withdrawal := record(t, l, domain.Withdrawal, "120", "withdrawal")

	got, err := l.GetTransaction(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, deposit.ID, got.ID)
	assert.True(t, deposit.Amount.Equal(got.Amount))
	assert.Equal(t, domain.Deposit, got.Type)

	got, err = l.GetTransaction(withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.ID, got.ID)
	assert.Equal(t, domain.Withdrawal, got.Type)
	assert.True(t, dec("180").Equal(got.BalanceAfter))
}

func TestGetTransaction_NotFound(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "1", "")

	_, err := l.GetTransaction(uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrInsufficientFunds))
}

func TestReplayReproducesBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := newTestLedger()

	for i := 0; i < 500; i++ {
		txType := domain.Deposit
		if rng.Intn(2) == 0 {
			txType = domain.Withdrawal
		}
		amount := decimal.New(int64(rng.Intn(10000)+1), -2)
		_, err := l.RecordTransaction(txType, amount, "")
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientFunds)
		}
		require.False(t, l.GetBalance().Balance.IsNegative())
	}

	history, err := l.GetTransactionHistory(1, MaxPageSize)
	require.NoError(t, err)
	total := history.TotalCount

	folded := decimal.Zero
	for page := (total + MaxPageSize - 1) / MaxPageSize; page >= 1; page-- {
		h, err := l.GetTransactionHistory(page, MaxPageSize)
		require.NoError(t, err)
		for i := len(h.Items) - 1; i >= 0; i-- {
			tx := h.Items[i]
			folded = folded.Add(tx.Type.Signed(tx.Amount))
			require.True(t, folded.Equal(tx.BalanceAfter), "tx %s", tx.ID)
			require.False(t, folded.IsNegative())
		}
	}
	assert.True(t, folded.Equal(l.GetBalance().Balance))
	assert.NoError(t, l.Verify())
}

func TestVerify_DetectsTampering(t *testing.T) {
	l := newTestLedger()
	record(t, l, domain.Deposit, "10", "")
	record(t, l, domain.Deposit, "5", "")
	require.NoError(t, l.Verify())

	l.log[1].BalanceAfter = dec("16")
	assert.ErrorIs(t, l.Verify(), ErrInconsistent)

	l.log[1].BalanceAfter = dec("15")
	l.balance = dec("14")
	assert.ErrorIs(t, l.Verify(), ErrInconsistent)

	l.balance = dec("15")
	require.NoError(t, l.Verify())
	l.log[1].Sequence = 7
	assert.ErrorIs(t, l.Verify(), ErrInconsistent)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "insufficient_funds", KindInsufficientFunds.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
}
