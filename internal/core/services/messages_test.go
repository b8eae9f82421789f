package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

func newMessageService(repo *fakeMessageRepo, hub *fakeBroadcaster) *MessageService {
	return NewMessageService(testLogger(), repo, hub, &fakeTxManager{messages: repo})
}

func TestSubmitPersistsThenPublishes(t *testing.T) {
	repo := &fakeMessageRepo{}
	hub := &fakeBroadcaster{}
	svc := newMessageService(repo, hub)

	resp, err := svc.Submit(context.Background(), domain.CreateMessageRequest{
		ConversationID: 42,
		SenderID:       7,
		Text:           "hi",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(42), resp.ConversationID)
	assert.Equal(t, int64(7), resp.SenderID)
	assert.Equal(t, "hi", resp.Text)

	require.Len(t, repo.rows, 1)
	published := hub.all()
	require.Len(t, published, 1)
	assert.Equal(t, resp.ID, published[0].ID)
	assert.Equal(t, repo.rows[0].ID, published[0].ID)
}

func TestSubmitDoesNotPublishWhenPersistenceFails(t *testing.T) {
	repo := &fakeMessageRepo{failCreate: true}
	hub := &fakeBroadcaster{}
	svc := newMessageService(repo, hub)

	_, err := svc.Submit(context.Background(), domain.CreateMessageRequest{
		ConversationID: 42,
		SenderID:       7,
		Text:           "hi",
	})
	require.Error(t, err)
	assert.Empty(t, hub.all())
	assert.Empty(t, repo.rows)
}

func TestSubmitRejectsInvalidEnvelope(t *testing.T) {
	repo := &fakeMessageRepo{}
	hub := &fakeBroadcaster{}
	svc := newMessageService(repo, hub)

	for name, req := range map[string]domain.CreateMessageRequest{
		"empty text":      {ConversationID: 42, SenderID: 7},
		"no sender":       {ConversationID: 42, Text: "hi"},
		"no conversation": {SenderID: 7, Text: "hi"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
		})
	}
	assert.Empty(t, hub.all())
}

func TestUpdateMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := newMessageService(repo, &fakeBroadcaster{})

	created, err := repo.Create(context.Background(), domain.Message{ConversationID: 1, SenderID: 2, Text: "before"})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), created.ID, domain.UpdateMessageRequest{Text: "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", resp.Text)

	_, err = svc.Update(context.Background(), 404, domain.UpdateMessageRequest{Text: "after"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
