package domain

import "context"

// Repositories return (nil, nil) when a row is absent; services decide
// whether absence is an error. Writes issued while a transaction scope is
// active in ctx must run on that scope's connection.

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindAll(ctx context.Context, page PageRequest) (PageResponse[User], error)
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user User) (*User, error)
	Update(ctx context.Context, user User) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type ConversationRepository interface {
	FindByID(ctx context.Context, id int64) (*Conversation, error)
	FindByAuthor(ctx context.Context, authorID int64, page PageRequest) (PageResponse[Conversation], error)
	ExistsByPrivateID(ctx context.Context, privateID string) (bool, error)
	Create(ctx context.Context, conversation Conversation) (*Conversation, error)
	Delete(ctx context.Context, id int64) error
}

type ParticipantRepository interface {
	FindByConversation(ctx context.Context, conversationID int64, page PageRequest) (PageResponse[Participant], error)
	ExistsByConversationAndUser(ctx context.Context, conversationID, userID int64) (bool, error)
	Create(ctx context.Context, participant Participant) (*Participant, error)
	UpdateRoles(ctx context.Context, id int64, roles string) (*Participant, error)
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	FindByID(ctx context.Context, id int64) (*Message, error)
	FindByConversation(ctx context.Context, conversationID int64, page PageRequest) (PageResponse[Message], error)
	Create(ctx context.Context, message Message) (*Message, error)
	Update(ctx context.Context, message Message) (*Message, error)
	Delete(ctx context.Context, id int64) error
}
