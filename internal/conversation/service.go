// Package conversation implements the rules around two-party conversations:
// who may start, read and delete them, and how participant references are
// resolved.
package conversation

import (
	"errors"
	"fmt"
	"log/slog"

	"strife/backend/internal/apperror"
	"strife/backend/internal/models"
)

// ErrSelfConversation is returned when a user tries to start a conversation with themselves.
var ErrSelfConversation = errors.New("cannot start a conversation with yourself")

// Store is the persistence the service needs. storage.Service satisfies it.
type Store interface {
	GetUserByID(userID string) (*models.User, error)
	CreateConversation(conv *models.Conversation) error
	GetConversationByID(id string) (*models.Conversation, error)
	FindConversationBetween(userA, userB string) (*models.Conversation, error)
	GetConversationsForUser(userID string) ([]models.Conversation, error)
	DeleteConversation(id string) error
}

// Publisher delivers conversation events to interested clients.
type Publisher interface {
	PublishEvent(event models.ConversationEvent) error
}

// Participants holds both resolved users of a conversation, in stored order.
type Participants struct {
	User1 *models.User `json:"user1"`
	User2 *models.User `json:"user2"`
}

// Service handles the business logic for conversations.
type Service struct {
	Storage   Store
	Publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new conversation service. publisher and logger may be nil.
func NewService(s Store, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Storage:   s,
		Publisher: publisher,
		logger:    logger.With("component", "conversation"),
	}
}

// Start returns the conversation between requesterID and partnerID, creating
// it when none exists yet. created reports whether a new record was made.
func (s *Service) Start(requesterID, partnerID string) (conv *models.Conversation, created bool, err error) {
	if requesterID == partnerID {
		return nil, false, ErrSelfConversation
	}

	for _, id := range []string{requesterID, partnerID} {
		if _, err := s.Storage.GetUserByID(id); err != nil {
			return nil, false, err
		}
	}

	existing, err := s.Storage.FindConversationBetween(requesterID, partnerID)
	if err != nil {
		return nil, false, fmt.Errorf("find conversation: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	conv = &models.Conversation{
		User1ID: requesterID,
		User2ID: partnerID,
	}
	if err := s.Storage.CreateConversation(conv); err != nil {
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}

	s.logger.Info("conversation started",
		"conversation_id", conv.ID, "user1", conv.User1ID, "user2", conv.User2ID)
	s.publish(models.NewConversationEvent(models.EventConversationCreated, *conv))

	return conv, true, nil
}

// Get returns the conversation if requesterID takes part in it.
func (s *Service) Get(requesterID, id string) (*models.Conversation, error) {
	conv, err := s.Storage.GetConversationByID(id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, apperror.UnauthorizedAction(
			fmt.Sprintf("user %s is not a participant of conversation %s", requesterID, id))
	}
	return conv, nil
}

// List returns the requester's conversations, newest first.
func (s *Service) List(requesterID string) ([]models.Conversation, error) {
	return s.Storage.GetConversationsForUser(requesterID)
}

// Participants resolves both user references of a conversation the
// requester takes part in.
func (s *Service) Participants(requesterID, id string) (*Participants, error) {
	conv, err := s.Get(requesterID, id)
	if err != nil {
		return nil, err
	}

	user1, err := s.Storage.GetUserByID(conv.User1ID)
	if err != nil {
		return nil, err
	}
	user2, err := s.Storage.GetUserByID(conv.User2ID)
	if err != nil {
		return nil, err
	}
	return &Participants{User1: user1, User2: user2}, nil
}

// Delete removes a conversation the requester takes part in.
func (s *Service) Delete(requesterID, id string) error {
	conv, err := s.Get(requesterID, id)
	if err != nil {
		return err
	}
	return s.remove(conv)
}

// ForceDelete removes a conversation without a participant check. It is
// meant for administrative tooling.
func (s *Service) ForceDelete(id string) error {
	conv, err := s.Storage.GetConversationByID(id)
	if err != nil {
		return err
	}
	return s.remove(conv)
}

func (s *Service) remove(conv *models.Conversation) error {
	if err := s.Storage.DeleteConversation(conv.ID); err != nil {
		return err
	}

	s.logger.Info("conversation deleted", "conversation_id", conv.ID)
	s.publish(models.NewConversationEvent(models.EventConversationDeleted, *conv))
	return nil
}

// publish never fails the calling operation; the event feed is best effort.
func (s *Service) publish(event models.ConversationEvent) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishEvent(event); err != nil {
		s.logger.Warn("failed to publish conversation event",
			"type", event.Type, "conversation_id", event.Conversation.ID, "error", err)
	}
}
