package notify

import "context"

// Notifier delivers run outcome messages. Callers treat delivery as
// best-effort: a returned error is logged and deliberately discarded,
// never folded into the run's own status.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type noop struct{}

func NewNoop() Notifier {
	return noop{}
}

func (noop) Notify(ctx context.Context, message string) error {
	return nil
}
