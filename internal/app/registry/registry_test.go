package registry

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/internal/core/domain"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func msg(id, conversationID int64) domain.MessageResponse {
	return domain.MessageResponse{ID: id, ConversationID: conversationID, SenderID: 1, Text: "hello"}
}

func TestPublishReachesEverySubscriberInOrder(t *testing.T) {
	hub := newTestHub()
	first := hub.Subscribe(42)
	second := hub.Subscribe(42)
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)

	hub.Publish(42, msg(1, 42))
	hub.Publish(42, msg(2, 42))
	hub.Publish(42, msg(3, 42))

	for _, sub := range []*Subscription{first, second} {
		for want := int64(1); want <= 3; want++ {
			select {
			case got := <-sub.C:
				assert.Equal(t, want, got.ID)
			case <-time.After(time.Second):
				t.Fatalf("timed out waiting for message %d", want)
			}
		}
	}
}

func TestPublishDoesNotCrossConversations(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe(1)
	defer hub.Unsubscribe(sub)

	hub.Publish(2, msg(1, 2))

	select {
	case got := <-sub.C:
		t.Fatalf("unexpected message %d", got.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	hub := newTestHub()
	assert.NotPanics(t, func() {
		hub.Publish(7, msg(1, 7))
	})
	assert.Equal(t, 0, hub.Subscribers(7))
}

func TestLastUnsubscribeRemovesChannel(t *testing.T) {
	hub := newTestHub()
	first := hub.Subscribe(5)
	second := hub.Subscribe(5)
	require.Equal(t, 2, hub.Subscribers(5))

	hub.Unsubscribe(first)
	assert.Equal(t, 1, hub.Subscribers(5))

	hub.Unsubscribe(second)
	assert.Equal(t, 0, hub.Subscribers(5))

	// A fresh subscribe starts a new channel with no leftover backlog.
	third := hub.Subscribe(5)
	defer hub.Unsubscribe(third)
	select {
	case got := <-third.C:
		t.Fatalf("unexpected backlog message %d", got.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowSubscriberLosesOldestMessages(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe(9)
	defer hub.Unsubscribe(sub)

	total := int64(subscriberBuffer + 5)
	for id := int64(1); id <= total; id++ {
		hub.Publish(9, msg(id, 9))
	}

	// The first five messages were dropped to make room.
	var received []int64
	for {
		select {
		case got := <-sub.C:
			received = append(received, got.ID)
			continue
		default:
		}
		break
	}
	require.Len(t, received, subscriberBuffer)
	assert.Equal(t, int64(6), received[0])
	assert.Equal(t, total, received[len(received)-1])
}

func TestUnsubscribeClosesDone(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe(3)

	select {
	case <-sub.Done():
		t.Fatal("done closed before unsubscribe")
	default:
	}

	hub.Unsubscribe(sub)
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after unsubscribe")
	}

	// Unsubscribing twice must be safe.
	assert.NotPanics(t, func() { hub.Unsubscribe(sub) })
}
