package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mingle/internal/core/contracts"
	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

var convTracer = otel.Tracer("services/conversation")

type IConversationService interface {
	Create(ctx context.Context, req domain.CreateConversationRequest) (*domain.ConversationResponse, error)
	FindByID(ctx context.Context, id int64) (*domain.ConversationResponse, error)
	FindByAuthor(ctx context.Context, authorID int64, page domain.PageRequest) (domain.PageResponse[domain.ConversationResponse], error)
	Participants(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.ParticipantResponse], error)
	IsMember(ctx context.Context, conversationID, userID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type ConversationService struct {
	log           *slog.Logger
	conversations domain.ConversationRepository
	participants  domain.ParticipantRepository
	tx            contracts.TxManager
	validate      *validator.Validate
}

func NewConversationService(
	log *slog.Logger,
	conversations domain.ConversationRepository,
	participants domain.ParticipantRepository,
	tx contracts.TxManager,
) *ConversationService {
	return &ConversationService{
		log:           log,
		conversations: conversations,
		participants:  participants,
		tx:            tx,
		validate:      validator.New(),
	}
}

// Create makes a conversation and its participant rows in one transaction.
// A PRIVATE conversation must resolve to exactly two distinct members and
// carries a canonical pair key that is unique among live conversations, so
// the same two people can never hold two private chats at once.
func (s *ConversationService) Create(ctx context.Context, req domain.CreateConversationRequest) (*domain.ConversationResponse, error) {
	ctx, span := convTracer.Start(ctx, "ConversationService.Create",
		trace.WithAttributes(attribute.Int64("author_id", req.AuthorID)))
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.CodeBadRequest, "Invalid conversation request", err)
	}

	// The author is always a member; duplicates collapse keeping first
	// appearance order.
	members := lo.Uniq(append([]int64{req.AuthorID}, req.Participants...))

	var resp domain.ConversationResponse
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		conv := domain.Conversation{
			AuthorID: req.AuthorID,
			Type:     req.Type,
			Name:     req.Name,
			PhotoURL: req.PhotoURL,
		}

		if req.Type == domain.ConversationPrivate {
			if len(members) != 2 {
				return apperr.BadRequest("Private chat must have 2 participants")
			}
			key := domain.PrivatePairKey(members[0], members[1])
			exists, err := s.conversations.ExistsByPrivateID(ctx, key)
			if err != nil {
				return err
			}
			if exists {
				return apperr.Conflict("Private conversation already exists")
			}
			conv.PrivateID = &key
		}

		created, err := s.conversations.Create(ctx, conv)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, userID := range members {
			roles := domain.RoleParticipant
			if userID == req.AuthorID {
				roles = domain.RoleAdmin + "," + domain.RoleParticipant
			}
			if _, err := s.participants.Create(ctx, domain.Participant{
				ConversationID: created.ID,
				UserID:         userID,
				JoinedAt:       now,
				Roles:          roles,
			}); err != nil {
				return err
			}
		}

		resp = created.Response()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("conversation created",
		slog.Int64("conversation_id", resp.ID),
		slog.String("type", string(resp.Type)),
		slog.Int("participants", len(members)),
	)
	return &resp, nil
}

func (s *ConversationService) FindByID(ctx context.Context, id int64) (*domain.ConversationResponse, error) {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	resp := conv.Response()
	return &resp, nil
}

func (s *ConversationService) FindByAuthor(ctx context.Context, authorID int64, page domain.PageRequest) (domain.PageResponse[domain.ConversationResponse], error) {
	convs, err := s.conversations.FindByAuthor(ctx, authorID, page)
	if err != nil {
		return domain.PageResponse[domain.ConversationResponse]{}, err
	}
	return domain.MapPage(convs, domain.Conversation.Response), nil
}

func (s *ConversationService) Participants(ctx context.Context, conversationID int64, page domain.PageRequest) (domain.PageResponse[domain.ParticipantResponse], error) {
	parts, err := s.participants.FindByConversation(ctx, conversationID, page)
	if err != nil {
		return domain.PageResponse[domain.ParticipantResponse]{}, err
	}
	return domain.MapPage(parts, domain.Participant.Response), nil
}

func (s *ConversationService) IsMember(ctx context.Context, conversationID, userID int64) (bool, error) {
	return s.participants.ExistsByConversationAndUser(ctx, conversationID, userID)
}

func (s *ConversationService) Delete(ctx context.Context, id int64) error {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if conv == nil {
		return apperr.NotFound("Conversation not found")
	}
	if err := s.conversations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("conversation deleted", slog.Int64("conversation_id", id))
	return nil
}
