package events

import (
	"context" // Context for sink operations
	"errors"  // Joining sink failures

	"ledger_system/internal/domain" // Importing domain models
)

// Sink receives every transaction after the ledger has committed it.
// Publish runs outside the ledger lock, so concurrent requests may deliver
// transactions out of log order; consumers order by Transaction.Sequence.
type Sink interface {
	Publish(ctx context.Context, tx domain.Transaction) error
}

// NopSink discards transactions
type NopSink struct{}

// Publish does nothing
func (NopSink) Publish(context.Context, domain.Transaction) error { return nil }

// Fanout publishes to every sink in order and reports all failures together
type Fanout []Sink

// Publish delivers tx to each sink, continuing past failures
func (f Fanout) Publish(ctx context.Context, tx domain.Transaction) error {
	var errs []error // Collected sink failures
	for _, s := range f {
		if err := s.Publish(ctx, tx); err != nil {
			errs = append(errs, err) // Keep going, later sinks still get the transaction
		}
	}
	return errors.Join(errs...) // nil when every sink succeeded
}
