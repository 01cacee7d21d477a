package api

import (
	"net/http" // HTTP status codes

	"ledger_system/internal/ledger" // Ledger error kinds

	"github.com/gin-gonic/gin" // Gin web framework
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Message    string `json:"message"`           // Human readable message
	Details    string `json:"details,omitempty"` // Extra context, optional
	StatusCode int    `json:"statusCode"`        // Mirrors the HTTP status
}

// respondError writes an ErrorResponse with the given status
func respondError(c *gin.Context, status int, message, details string) {
	c.JSON(status, ErrorResponse{Message: message, Details: details, StatusCode: status})
}

// respondLedgerError maps a ledger error kind to its HTTP response
func respondLedgerError(c *gin.Context, err error) {
	switch ledger.KindOf(err) {
	case ledger.KindValidation:
		respondError(c, http.StatusBadRequest, "Invalid request data", err.Error()) // Malformed input
	case ledger.KindInsufficientFunds:
		respondError(c, http.StatusConflict, "Insufficient balance for withdrawal.", err.Error()) // Business rule
	case ledger.KindNotFound:
		respondError(c, http.StatusNotFound, "Transaction not found", "") // Absent record
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", "") // Never leak internals
	}
}
