package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mingle/internal/app/server/handlers"
	"mingle/internal/config"
	"mingle/internal/core/services"
	"mingle/pkg/middleware"
)

type Server struct {
	log  *slog.Logger
	http *http.Server
}

type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Conversations *handlers.ConversationHandler
	Messages      *handlers.MessageHandler
}

func New(cfg config.Config, log *slog.Logger, tokens *services.TokenService, h Handlers) *Server {
	mux := http.NewServeMux()
	auth := middleware.Auth(tokens)

	mux.HandleFunc("POST /api/auth/sign_up", h.Auth.SignUp)
	mux.HandleFunc("POST /api/auth/sign_in", h.Auth.SignIn)

	mux.HandleFunc("GET /api/users", h.Users.FindAll)
	mux.HandleFunc("GET /api/user/{user_id}", h.Users.FindByID)
	mux.Handle("GET /api/user", auth(http.HandlerFunc(h.Users.FindSelf)))
	mux.Handle("PATCH /api/user", auth(http.HandlerFunc(h.Users.Update)))
	mux.Handle("DELETE /api/user", auth(http.HandlerFunc(h.Users.Delete)))

	mux.Handle("POST /api/conversation", auth(http.HandlerFunc(h.Conversations.Create)))
	mux.HandleFunc("GET /api/conversation/{conversation_id}", h.Conversations.FindByID)
	mux.HandleFunc("GET /api/conversations", h.Conversations.FindByAuthor)
	mux.HandleFunc("GET /api/conversation/{conversation_id}/participants", h.Conversations.Participants)
	mux.Handle("DELETE /api/conversation/{conversation_id}", auth(http.HandlerFunc(h.Conversations.Delete)))

	mux.Handle("POST /api/message", auth(http.HandlerFunc(h.Messages.Create)))
	mux.HandleFunc("GET /api/conversation/{conversation_id}/messages", h.Messages.ListByConversation)
	mux.HandleFunc("GET /api/conversation/{conversation_id}/online", h.Messages.Online)
	mux.Handle("PATCH /api/message/{message_id}", auth(http.HandlerFunc(h.Messages.Update)))
	mux.Handle("DELETE /api/message/{message_id}", auth(http.HandlerFunc(h.Messages.Delete)))

	mux.Handle("GET /ws/conversation/{conversation_id}/messages", auth(http.HandlerFunc(h.Messages.ServeWS)))

	var handler http.Handler = mux
	handler = middleware.Tracer(cfg.Service.Name)(handler)
	handler = middleware.RequestLogger(log)(handler)

	return &Server{
		log: log,
		http: &http.Server{
			Addr:    cfg.Service.Addr,
			Handler: handler,
		},
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
