package ports

import "context"

// Notifier is the outbound SMS/notification side-channel. Sends are
// fire-and-forget from the engine's point of view: failures are logged
// and never affect the USSD response.
type Notifier interface {
	Send(ctx context.Context, to, message string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, to, message string) error

// Send implements Notifier.
func (f NotifierFunc) Send(ctx context.Context, to, message string) error {
	return f(ctx, to, message)
}
