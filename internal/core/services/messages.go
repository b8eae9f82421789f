package services

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mingle/internal/core/contracts"
	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

var msgTracer = otel.Tracer("services/message")

type IMessageService interface {
	Submit(ctx context.Context, req domain.CreateMessageRequest) (*domain.MessageResponse, error)
	FindByConversation(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.MessageResponse], error)
	Update(ctx context.Context, id int64, req domain.UpdateMessageRequest) (*domain.MessageResponse, error)
	Delete(ctx context.Context, id int64) error
}

type MessageService struct {
	log      *slog.Logger
	messages domain.MessageRepository
	hub      contracts.Broadcaster
	tx       contracts.TxManager
	validate *validator.Validate
}

func NewMessageService(
	log *slog.Logger,
	messages domain.MessageRepository,
	hub contracts.Broadcaster,
	tx contracts.TxManager,
) *MessageService {
	return &MessageService{
		log:      log,
		messages: messages,
		hub:      hub,
		tx:       tx,
		validate: validator.New(),
	}
}

// Submit persists the message and, only after the transaction commits,
// pushes it to the conversation's live subscribers. A failed write never
// reaches anyone.
func (s *MessageService) Submit(ctx context.Context, req domain.CreateMessageRequest) (*domain.MessageResponse, error) {
	ctx, span := msgTracer.Start(ctx, "MessageService.Submit",
		trace.WithAttributes(
			attribute.Int64("conversation_id", req.ConversationID),
			attribute.Int64("sender_id", req.SenderID),
		))
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid message request", err)
	}

	var resp domain.MessageResponse
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		created, err := s.messages.Create(ctx, domain.Message{
			ConversationID: req.ConversationID,
			SenderID:       req.SenderID,
			Text:           req.Text,
		})
		if err != nil {
			return err
		}
		resp = created.Response()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(resp.ConversationID, resp)
	s.log.Debug("message submitted",
		slog.Int64("message_id", resp.ID),
		slog.Int64("conversation_id", resp.ConversationID),
	)
	return &resp, nil
}

func (s *MessageService) FindByConversation(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.MessageResponse], error) {
	msgs, err := s.messages.FindByConversation(ctx, conversationID, page)
	if err != nil {
		return domain.PageResponse[domain.MessageResponse]{}, err
	}
	return domain.MapPage(msgs, domain.Message.Response), nil
}

func (s *MessageService) Update(ctx context.Context, id int64, req domain.UpdateMessageRequest) (*domain.MessageResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid message request", err)
	}

	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperr.NotFound("Message not found")
	}
	msg.Text = req.Text

	updated, err := s.messages.Update(ctx, *msg)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("Message not found")
	}
	resp := updated.Response()
	return &resp, nil
}

func (s *MessageService) Delete(ctx context.Context, id int64) error {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperr.NotFound("Message not found")
	}
	return s.messages.Delete(ctx, id)
}
