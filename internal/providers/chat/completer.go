// Package chat provides the chat-completion client behind the widget's
// metered question endpoint.
package chat

import "context"

// Completer answers a single user question.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}
