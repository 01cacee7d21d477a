package api

import (
	"ledger_system/internal/events"     // Post-commit sinks
	"ledger_system/internal/metrics"    // Metrics recorder
	"ledger_system/internal/middleware" // Custom middleware

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics exposition
	"github.com/sirupsen/logrus"                              // Logging library
)

// APIVersion is advertised on every response
const APIVersion = "1.0"

// Dependencies are the collaborators wired into the router
type Dependencies struct {
	Ledger   Ledger              // Account ledger
	Sink     events.Sink         // Receives committed transactions, optional
	Recorder metrics.Recorder    // Metrics recorder, optional
	Gatherer prometheus.Gatherer // Serves /metrics when set
	Log      logrus.FieldLogger  // Request and domain logging, optional
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Sink == nil {
		deps.Sink = events.NopSink{} // Nothing to fan out to
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoOpRecorder{} // Metrics disabled
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger() // Fall back to the global logger
	}

	r := gin.New() // Gin router instance
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Log, deps.Recorder), middleware.APIVersion(APIVersion))

	// Metrics route
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Account routes, only the configured account is served
	account := r.Group("/api/accounts/:accountId")
	account.Use(middleware.AccountGuard(deps.Ledger.AccountID()))
	account.GET("", GetAccountHandler(deps.Ledger))                                                          // Account summary endpoint
	account.GET("/balance", GetBalanceHandler(deps.Ledger))                                                  // Balance endpoint
	account.GET("/transactions", GetTransactionHistoryHandler(deps.Ledger))                                  // Transaction history endpoint
	account.GET("/transactions/:transactionId", GetTransactionHandler(deps.Ledger))                          // Single transaction endpoint
	account.POST("/transactions", RecordTransactionHandler(deps.Ledger, deps.Sink, deps.Recorder, deps.Log)) // Record transaction endpoint
	account.GET("/health", HealthHandler(deps.Ledger, deps.Log))                                             // Health check endpoint

	return r, nil
}
