package contracts

import "mingle/internal/core/domain"

// Broadcaster fans a message envelope out to every live subscriber of a
// conversation. Publishing to a conversation with no subscribers is a no-op.
type Broadcaster interface {
	Publish(conversationID int64, msg domain.MessageResponse)
}
