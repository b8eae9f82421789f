package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"mingle/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errBoom = errors.New("boom")

type fakeConversationRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.Conversation

	failCreate bool
}

func (r *fakeConversationRepo) FindByID(_ context.Context, id int64) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id && c.DeletedAt == nil {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindByAuthor(_ context.Context, authorID int64, page domain.PageRequest) (domain.PageResponse[domain.Conversation], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var data []domain.Conversation
	for _, c := range r.rows {
		if c.AuthorID == authorID && c.DeletedAt == nil {
			data = append(data, c)
		}
	}
	return domain.PageResponse[domain.Conversation]{Data: data, Size: page.Limit()}, nil
}

func (r *fakeConversationRepo) ExistsByPrivateID(_ context.Context, privateID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.PrivateID != nil && *c.PrivateID == privateID && c.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversationRepo) Create(_ context.Context, conversation domain.Conversation) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, errBoom
	}
	r.nextID++
	conversation.ID = r.nextID
	r.rows = append(r.rows, conversation)
	c := conversation
	return &c, nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeParticipantRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.Participant

	failAfter int // fail the create once this many rows exist; 0 disables
}

func (r *fakeParticipantRepo) FindByConversation(_ context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.Participant], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var data []domain.Participant
	for _, p := range r.rows {
		if p.ConversationID == conversationID {
			data = append(data, p)
		}
	}
	return domain.PageResponse[domain.Participant]{Data: data, Size: page.Limit()}, nil
}

func (r *fakeParticipantRepo) ExistsByConversationAndUser(_ context.Context, conversationID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ConversationID == conversationID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeParticipantRepo) Create(_ context.Context, participant domain.Participant) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAfter > 0 && len(r.rows) >= r.failAfter {
		return nil, errBoom
	}
	r.nextID++
	participant.ID = r.nextID
	r.rows = append(r.rows, participant)
	p := participant
	return &p, nil
}

func (r *fakeParticipantRepo) UpdateRoles(_ context.Context, id int64, roles string) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Roles = roles
			p := r.rows[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, id int64) error {
	return nil
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.Message

	failCreate bool
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id int64) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindByConversation(_ context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.Message], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var data []domain.Message
	for _, m := range r.rows {
		if m.ConversationID == conversationID {
			data = append(data, m)
		}
	}
	return domain.PageResponse[domain.Message]{Data: data, Size: page.Limit()}, nil
}

func (r *fakeMessageRepo) Create(_ context.Context, message domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, errBoom
	}
	r.nextID++
	message.ID = r.nextID
	r.rows = append(r.rows, message)
	m := message
	return &m, nil
}

func (r *fakeMessageRepo) Update(_ context.Context, message domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == message.ID {
			r.rows[i].Text = message.Text
			m := r.rows[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id int64) error {
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.ID == id && u.DeletedAt == nil {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, page domain.PageRequest) (domain.PageResponse[domain.User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.PageResponse[domain.User]{Data: slices.Clone(r.rows), Size: page.Limit()}, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if (u.Username == usernameOrEmail || u.Email == usernameOrEmail) && u.DeletedAt == nil {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.rows = append(r.rows, user)
	u := user
	return &u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == user.ID {
			r.rows[i] = user
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	return nil
}

// fakeTxManager mimics all-or-nothing semantics: repo state is snapshotted
// before the scope runs and restored when it fails.
type fakeTxManager struct {
	conversations *fakeConversationRepo
	participants  *fakeParticipantRepo
	messages      *fakeMessageRepo
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var convSnap []domain.Conversation
	var partSnap []domain.Participant
	var msgSnap []domain.Message
	if m.conversations != nil {
		convSnap = slices.Clone(m.conversations.rows)
	}
	if m.participants != nil {
		partSnap = slices.Clone(m.participants.rows)
	}
	if m.messages != nil {
		msgSnap = slices.Clone(m.messages.rows)
	}

	if err := fn(ctx); err != nil {
		if m.conversations != nil {
			m.conversations.rows = convSnap
		}
		if m.participants != nil {
			m.participants.rows = partSnap
		}
		if m.messages != nil {
			m.messages.rows = msgSnap
		}
		return err
	}
	return nil
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	published []domain.MessageResponse
}

func (b *fakeBroadcaster) Publish(conversationID int64, msg domain.MessageResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)
}

func (b *fakeBroadcaster) all() []domain.MessageResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.published)
}
