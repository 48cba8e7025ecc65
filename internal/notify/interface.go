package notify

import "context"

// Notifier delivers a comparison summary to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
