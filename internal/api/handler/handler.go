package handler

import (
	"log/slog"

	"strife/backend/internal/auth"
	"strife/backend/internal/chathub"
	"strife/backend/internal/conversation"
	"strife/backend/internal/models"
)

// WelcomeMessage is the body served at the root route.
const WelcomeMessage = "Welcome to Strife!"

// UserStore is the user persistence the handlers need.
type UserStore interface {
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)
}

// Handler holds the services the HTTP routes depend on.
type Handler struct {
	Users         UserStore
	Conversations *conversation.Service
	Tokens        *auth.TokenIssuer
	Hub           *chathub.ManagerService

	logger *slog.Logger
}

func NewHandler(users UserStore, conversations *conversation.Service, tokens *auth.TokenIssuer, hub *chathub.ManagerService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Users:         users,
		Conversations: conversations,
		Tokens:        tokens,
		Hub:           hub,
		logger:        logger.With("component", "http"),
	}
}
