package domain

import (
	"fmt"
	"strings"
	"time"

	"mingle/pkg/apperr"
)

type ConversationType string

const (
	ConversationPrivate ConversationType = "PRIVATE"
	ConversationGroup   ConversationType = "GROUP"
)

func ParseConversationType(s string) (ConversationType, error) {
	switch strings.ToUpper(s) {
	case "PRIVATE":
		return ConversationPrivate, nil
	case "GROUP":
		return ConversationGroup, nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("unknown conversation type: %s", s))
	}
}

// Conversation is a chat room. PrivateID is set only for PRIVATE
// conversations and is unique across all non-deleted rows.
type Conversation struct {
	ID        int64
	PrivateID *string
	AuthorID  int64
	Type      ConversationType
	Name      *string
	PhotoURL  *string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ConversationResponse struct {
	ID        int64            `json:"id"`
	PrivateID *string          `json:"private_id"`
	AuthorID  int64            `json:"author_id"`
	Type      ConversationType `json:"type"`
	Name      *string          `json:"name"`
	PhotoURL  *string          `json:"photo_url"`
	DeletedAt *time.Time       `json:"deleted_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (c Conversation) Response() ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		PrivateID: c.PrivateID,
		AuthorID:  c.AuthorID,
		Type:      c.Type,
		Name:      c.Name,
		PhotoURL:  c.PhotoURL,
		DeletedAt: c.DeletedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// PrivatePairKey derives the canonical identifier of a 1:1 conversation.
// The smaller user id always comes first, so the key is the same no matter
// which party initiated the chat.
func PrivatePairKey(userID1, userID2 int64) string {
	if userID1 < userID2 {
		return fmt.Sprintf("%d#%d", userID1, userID2)
	}
	return fmt.Sprintf("%d#%d", userID2, userID1)
}

const (
	RoleAdmin       = "ADMIN"
	RoleParticipant = "PARTICIPANT"
)

// Participant links one user to one conversation. Roles is a comma-joined
// list of role tags.
type Participant struct {
	ID             int64
	ConversationID int64
	UserID         int64
	JoinedAt       time.Time
	Roles          string
	DeletedAt      *time.Time
	CreatedAt      time.Time
}

type ParticipantResponse struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	UserID         int64      `json:"user_id"`
	JoinedAt       time.Time  `json:"joined_at"`
	Roles          string     `json:"roles"`
	DeletedAt      *time.Time `json:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (p Participant) Response() ParticipantResponse {
	return ParticipantResponse{
		ID:             p.ID,
		ConversationID: p.ConversationID,
		UserID:         p.UserID,
		JoinedAt:       p.JoinedAt,
		Roles:          p.Roles,
		DeletedAt:      p.DeletedAt,
		CreatedAt:      p.CreatedAt,
	}
}

type CreateConversationRequest struct {
	AuthorID     int64            `json:"author_id" validate:"required,min=1"`
	Type         ConversationType `json:"type" validate:"required,oneof=PRIVATE GROUP"`
	Name         *string          `json:"name" validate:"omitempty,min=3,max=50"`
	PhotoURL     *string          `json:"photo_url" validate:"omitempty,url"`
	Participants []int64          `json:"participants"`
}
