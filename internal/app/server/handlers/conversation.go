package handlers

import (
	"net/http"
	"strconv"

	"mingle/internal/core/domain"
	"mingle/internal/core/services"
	"mingle/pkg/apperr"
)

type ConversationHandler struct {
	conversations services.IConversationService
}

func NewConversationHandler(conversations services.IConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.conversations.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ConversationHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.conversations.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConversationHandler) FindByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := strconv.ParseInt(r.URL.Query().Get("author_id"), 10, 64)
	if err != nil || authorID < 1 {
		writeError(w, r, apperr.BadRequest("Invalid author_id"))
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.conversations.FindByAuthor(r.Context(), authorID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConversationHandler) Participants(w http.ResponseWriter, r *http.Request) {
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
	resp, err := h.conversations.Participants(r.Context(), id, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.conversations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
