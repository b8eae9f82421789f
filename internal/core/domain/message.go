package domain

import "time"

// Message is a chat entry. Update and soft delete are independent of
// real-time fan-out.
type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Text           string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MessageResponse is the envelope returned to the submitter and pushed to
// every live subscriber of the conversation.
type MessageResponse struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	Text           string     `json:"text"`
	DeletedAt      *time.Time `json:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (m Message) Response() MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		DeletedAt:      m.DeletedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type CreateMessageRequest struct {
	ConversationID int64  `json:"conversation_id" validate:"required,min=1"`
	SenderID       int64  `json:"sender_id" validate:"required,min=1"`
	Text           string `json:"text" validate:"required"`
}

type UpdateMessageRequest struct {
	Text string `json:"text" validate:"required"`
}
