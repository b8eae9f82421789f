package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"mingle/internal/app/registry"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 512 * 1024
)

// Session pumps a conversation subscription over one WebSocket connection.
// A send loop forwards subscribed messages to the peer while a receive loop
// drains the socket to detect disconnects; whichever loop stops first tears
// the other down.
type Session struct {
	conn *websocket.Conn
	sub  *registry.Subscription
	log  *slog.Logger
}

func NewSession(conn *websocket.Conn, sub *registry.Subscription, log *slog.Logger) *Session {
	return &Session{conn: conn, sub: sub, log: log}
}

// Run blocks until the peer disconnects, the subscription ends, or ctx is
// cancelled. The connection is closed before Run returns.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.conn.SetReadLimit(maxFrameSize)

	sendDone := make(chan struct{})
	recvDone := make(chan struct{})

	go func() {
		defer close(sendDone)
		s.sendLoop(ctx)
	}()
	go func() {
		defer close(recvDone)
		s.recvLoop()
	}()

	// Whichever loop finishes first wins; cancel and close so the loser
	// unblocks, then wait for it.
	select {
	case <-sendDone:
		_ = s.conn.Close()
		<-recvDone
	case <-recvDone:
		cancel()
		_ = s.conn.Close()
		<-sendDone
	}
}

func (s *Session) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.sub.Done():
			return
		case msg, ok := <-s.sub.C:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				s.log.Error("marshal outbound message failed", slog.Any("error", err))
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// recvLoop discards inbound frames; its only job is noticing the peer
// going away.
func (s *Session) recvLoop() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}
			return
		}
	}
}
