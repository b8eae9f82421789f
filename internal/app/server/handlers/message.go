package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"mingle/internal/app/registry"
	"mingle/internal/app/server/ws"
	"mingle/internal/core/contracts"
	"mingle/internal/core/domain"
	"mingle/internal/core/services"
	"mingle/internal/platform/logger"
	"mingle/pkg/apperr"
	"mingle/pkg/middleware"
)

const presenceTTL = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 5,
	WriteBufferSize: 1 << 5,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type MessageHandler struct {
	messages      services.IMessageService
	conversations services.IConversationService
	hub           *registry.Hub
	presence      contracts.PresenceStore
}

func NewMessageHandler(
	messages services.IMessageService,
	conversations services.IConversationService,
	hub *registry.Hub,
	presence contracts.PresenceStore,
) *MessageHandler {
	return &MessageHandler{
		messages:      messages,
		conversations: conversations,
		hub:           hub,
		presence:      presence,
	}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.messages.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *MessageHandler) ListByConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.messages.FindByConversation(r.Context(), id, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.UpdateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.messages.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.messages.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// Online lists the user ids currently holding a live subscription to the
// conversation.
func (h *MessageHandler) Online(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := h.presence.GetOnlineParticipants(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// ServeWS upgrades the request and streams the conversation's messages to
// the caller until either side disconnects. Only members of the
// conversation may subscribe.
func (h *MessageHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Authentication required"))
		return
	}
	conversationID, err := pathID(r, "conversation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	member, err := h.conversations.IsMember(r.Context(), conversationID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !member {
		writeError(w, r, apperr.Forbidden("Not a conversation participant"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", logger.Err(err))
		return
	}

	log = log.With(
		logger.Conversation(conversationID),
		logger.User(userID),
	)
	log.Info("subscriber connected")

	sub := h.hub.Subscribe(conversationID)
	defer func() {
		h.hub.Unsubscribe(sub)
		if h.hub.Subscribers(conversationID) == 0 {
			// The request context may be gone by now.
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.presence.ClearConversation(cleanupCtx, conversationID); err != nil {
				log.Warn("clear presence failed", logger.Err(err))
			}
		}
		log.Info("subscriber disconnected")
	}()

	ctx := r.Context()
	if err := h.presence.UpdateOnlineStatus(ctx, conversationID, userID, presenceTTL); err != nil {
		log.Warn("update presence failed", logger.Err(err))
	}
	go h.heartbeat(ctx, sub, conversationID, userID, log)

	session := ws.NewSession(conn, sub, log)
	session.Run(ctx)
}

func (h *MessageHandler) heartbeat(ctx context.Context, sub *registry.Subscription, conversationID, userID int64, log *slog.Logger) {
	ticker := time.NewTicker(presenceTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case <-ticker.C:
			if err := h.presence.UpdateOnlineStatus(ctx, conversationID, userID, presenceTTL); err != nil {
				log.Warn("update presence failed", logger.Err(err))
			}
		}
	}
}
