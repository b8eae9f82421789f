package contracts

import (
	"context"
	"time"
)

// PresenceStore tracks which users are currently online in a conversation.
type PresenceStore interface {
	// UpdateOnlineStatus refreshes the TTL-based online marker for a user.
	UpdateOnlineStatus(ctx context.Context, conversationID, userID int64, ttl time.Duration) error
	// GetOnlineParticipants returns the user ids currently active.
	GetOnlineParticipants(ctx context.Context, conversationID int64) ([]int64, error)
	// ClearConversation drops all presence state for a conversation.
	ClearConversation(ctx context.Context, conversationID int64) error
}
