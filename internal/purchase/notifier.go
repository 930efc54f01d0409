package purchase

import (
	"context"

	"github.com/openloot/packtrace/internal/pkg/logger"
)

// Notifier receives user-facing purchase updates. It replaces the global
// toast singleton the game client used: injecting it keeps the purchase flow
// testable without process-wide state.
type Notifier interface {
	// NotifyPurchaseUpdated is invoked after every applied machine
	// transition, including the terminal ones.
	NotifyPurchaseUpdated(ctx context.Context, transition Transition) error
}

// logNotifier is the default Notifier; it writes transitions to the log.
type logNotifier struct{}

var _ Notifier = (*logNotifier)(nil)

func (logNotifier) NotifyPurchaseUpdated(ctx context.Context, t Transition) error {
	fields := []any{
		"from", t.From.String(),
		"to", t.To.String(),
		"event", t.Event.Kind.String(),
	}
	if t.Event.TxHash != "" {
		fields = append(fields, "tx_hash", t.Event.TxHash)
	}
	if t.Event.Err != nil {
		fields = append(fields, "error", t.Event.Err)
	}

	logger.Info(ctx, "purchase state changed", fields...)
	return nil
}
