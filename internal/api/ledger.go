package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"ledger_system/internal/domain"  // Importing domain models
	"ledger_system/internal/events"  // Post-commit sinks
	"ledger_system/internal/ledger"  // Ledger defaults and error kinds
	"ledger_system/internal/metrics" // Metrics recorder

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Transaction ID parsing
	"github.com/shopspring/decimal" // Precise monetary amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// Ledger is the account ledger served over HTTP
type Ledger interface {
	AccountID() uuid.UUID
	RecordTransaction(txType domain.TransactionType, amount decimal.Decimal, description string) (domain.Transaction, error)
	GetBalance() domain.Balance
	GetAccountSummary() domain.AccountSummary
	GetTransactionHistory(page, pageSize int) (domain.TransactionHistory, error)
	GetTransaction(id uuid.UUID) (domain.Transaction, error)
	Verify() error
}

var (
	minAmount = decimal.RequireFromString("0.01")         // Smallest accepted amount
	maxAmount = decimal.RequireFromString("999999999.99") // Largest accepted amount
)

const amountScale = 2 // Decimal places kept for amounts

// TransactionRequest represents a deposit or withdrawal request
type TransactionRequest struct {
	Type        domain.TransactionType `json:"type" binding:"required,oneof=Deposit Withdrawal"` // Transaction type
	Amount      decimal.Decimal        `json:"amount"`                                           // Amount, checked by validate
	Description string                 `json:"description" binding:"max=500"`                    // Optional description
}

// validate checks the amount range and scale, which binding tags cannot express on decimals
func (r TransactionRequest) validate() string {
	if r.Amount.LessThan(minAmount) || r.Amount.GreaterThan(maxAmount) {
		return "Amount must be between 0.01 and 999,999,999.99"
	}
	// Amounts are whole cents
	if !r.Amount.Equal(r.Amount.Truncate(amountScale)) {
		return "Amount cannot have more than 2 decimal places"
	}
	return ""
}

// RecordTransactionHandler records a deposit or withdrawal on the account
func RecordTransactionHandler(l Ledger, sink events.Sink, recorder metrics.Recorder, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransactionRequest // Bind JSON request to struct
		// Validate request shape
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request data", err.Error()) // Return bad request
			return
		}
		// Validate amount range and scale
		if msg := req.validate(); msg != "" {
			respondError(c, http.StatusBadRequest, "Invalid request data", msg) // Return bad request
			return
		}
		tx, err := l.RecordTransaction(req.Type, req.Amount, req.Description) // Apply to the ledger
		if err != nil {
			recorder.RecordTransaction(string(req.Type), ledger.KindOf(err).String()) // Count rejection
			log.WithFields(logrus.Fields{
				"type":   req.Type,    // Transaction type
				"amount": req.Amount,  // Requested amount
				"reason": err.Error(), // Rejection reason
			}).Warn("Transaction rejected") // Log rejection
			respondLedgerError(c, err)
			return
		}
		recorder.RecordTransaction(string(tx.Type), "recorded") // Count success
		// Log successful transaction
		log.WithFields(logrus.Fields{
			"transaction_id": tx.ID,           // Transaction ID
			"sequence":       tx.Sequence,     // Position in the log
			"type":           tx.Type,         // Transaction type
			"amount":         tx.Amount,       // Transaction amount
			"balance_after":  tx.BalanceAfter, // Balance after applying it
		}).Info("Transaction recorded")
		// Fan out to sinks; the transaction is already committed, so failures are only logged
		if err := sink.Publish(c.Request.Context(), tx); err != nil {
			log.WithFields(logrus.Fields{
				"transaction_id": tx.ID,       // Transaction ID
				"error":          err.Error(), // Sink failure
			}).Error("Transaction sink failed")
		}
		c.Header("Location", c.Request.URL.Path+"/"+tx.ID.String()) // Where the new transaction lives
		c.JSON(http.StatusCreated, tx)                              // Return the created transaction
	}
}

// GetAccountHandler returns the account summary
func GetAccountHandler(l Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, l.GetAccountSummary()) // Snapshot of the account
	}
}

// GetBalanceHandler returns the current balance
func GetBalanceHandler(l Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, l.GetBalance()) // Balance read now
	}
}

// GetTransactionHistoryHandler returns one page of transactions, newest first
func GetTransactionHistoryHandler(l Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse page number
		page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(ledger.DefaultPage)))
		if err != nil || page < 1 {
			respondError(c, http.StatusBadRequest, "Page number must be greater than 0", "") // Return bad request
			return
		}
		// Parse page size within limits
		pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(ledger.DefaultPageSize)))
		if err != nil || pageSize < 1 || pageSize > ledger.MaxPageSize {
			respondError(c, http.StatusBadRequest, "Page size must be between 1 and 100", "") // Return bad request
			return
		}
		history, err := l.GetTransactionHistory(page, pageSize) // Read the page
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, history) // Return transaction history
	}
}

// GetTransactionHandler returns a single transaction by ID
func GetTransactionHandler(l Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("transactionId")) // Parse transaction ID
		if err != nil {
			respondError(c, http.StatusNotFound, "Transaction not found", "") // Malformed IDs never match
			return
		}
		tx, err := l.GetTransaction(id) // Look it up
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, tx) // Return the transaction
	}
}
