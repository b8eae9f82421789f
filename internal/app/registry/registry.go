package registry

import (
	"log/slog"
	"sync"

	"mingle/internal/core/domain"
)

// subscriberBuffer bounds how far a slow reader may fall behind before the
// oldest undelivered messages are discarded.
const subscriberBuffer = 100

// Hub fans conversation messages out to live subscribers. Channels are
// created lazily on the first subscribe and removed when the last
// subscriber leaves; publishing to a conversation nobody listens to is a
// silent no-op.
type Hub struct {
	log *slog.Logger

	mu       sync.Mutex
	channels map[int64]*channel
}

type channel struct {
	subs map[*Subscription]struct{}
}

// Subscription is one listener's view of a conversation channel. Messages
// arrive on C; Done is closed when the subscription is torn down.
type Subscription struct {
	C <-chan domain.MessageResponse

	conversationID int64
	ch             chan domain.MessageResponse
	done           chan struct{}
	closeOnce      sync.Once
}

// Done is closed when the subscription has been unsubscribed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:      log,
		channels: make(map[int64]*channel),
	}
}

// Subscribe registers a new listener on the conversation, creating the
// channel if it does not exist yet.
func (h *Hub) Subscribe(conversationID int64) *Subscription {
	sub := &Subscription{
		conversationID: conversationID,
		ch:             make(chan domain.MessageResponse, subscriberBuffer),
		done:           make(chan struct{}),
	}
	sub.C = sub.ch

	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[conversationID]
	if !ok {
		ch = &channel{subs: make(map[*Subscription]struct{})}
		h.channels[conversationID] = ch
	}
	ch.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the listener. When it was the channel's last
// subscriber the channel itself is removed, so a later subscribe starts
// fresh.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if ch, ok := h.channels[sub.conversationID]; ok {
		delete(ch.subs, sub)
		if len(ch.subs) == 0 {
			delete(h.channels, sub.conversationID)
		}
	}
	h.mu.Unlock()

	sub.closeOnce.Do(func() { close(sub.done) })
}

// Publish delivers msg to every current subscriber of the conversation.
// Delivery happens outside the registry lock; a subscriber whose buffer is
// full loses its oldest pending message rather than blocking the publisher.
func (h *Hub) Publish(conversationID int64, msg domain.MessageResponse) {
	h.mu.Lock()
	ch, ok := h.channels[conversationID]
	if !ok {
		h.mu.Unlock()
		return
	}
	subs := make([]*Subscription, 0, len(ch.subs))
	for sub := range ch.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.offer(msg)
	}
	h.log.Debug("message published",
		slog.Int64("conversation_id", conversationID),
		slog.Int("subscribers", len(subs)),
	)
}

// Subscribers reports the current listener count for a conversation.
func (h *Hub) Subscribers(conversationID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels[conversationID]; ok {
		return len(ch.subs)
	}
	return 0
}

func (s *Subscription) offer(msg domain.MessageResponse) {
	for {
		select {
		case <-s.done:
			return
		case s.ch <- msg:
			return
		default:
		}
		// Buffer full: drop the oldest pending message and retry.
		select {
		case <-s.ch:
		default:
		}
	}
}
