package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"strife/backend/internal/apperror"
	"strife/backend/internal/config"
	"strife/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EventsChannel is the Redis Pub/Sub channel carrying conversation events.
const EventsChannel = "strife:conversation-events"

var (
	// ErrUsernameTaken is returned by SaveUser when the username already exists.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrRedisDisabled is returned by Redis-only operations when no client is configured.
	ErrRedisDisabled = errors.New("redis is not configured")
)

type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)

	CreateConversation(conv *models.Conversation) error
	GetConversationByID(id string) (*models.Conversation, error)
	FindConversationBetween(userA, userB string) (*models.Conversation, error)
	GetConversationsForUser(userID string) ([]models.Conversation, error)
	DeleteConversation(id string) error

	PublishEvent(event models.ConversationEvent) error
	SubscribeToEvents() *redis.PubSub
}

var _ Storage = (*Service)(nil)

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context

	// UserCacheTTL is how long resolved users stay in Redis.
	UserCacheTTL time.Duration

	logger *slog.Logger
}

// NewStorageService Constructor. rdb may be nil: the user cache is then
// skipped and Pub/Sub operations return ErrRedisDisabled.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:           db,
		Redis:        rdb,
		Ctx:          context.Background(),
		UserCacheTTL: 10 * time.Minute,
		logger:       slog.Default().With("component", "storage"),
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger.With("component", "storage")
	return s
}

// OpenPostgres connects to PostgreSQL with error translation enabled, so
// unique violations surface as gorm.ErrDuplicatedKey.
func OpenPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}
	return db, nil
}

// OpenRedis connects to Redis and pings it. It returns nil, nil when Redis
// is not configured.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect Redis: %w", err)
	}
	return rdb, nil
}

// Migrate creates or updates the users and chats tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateConversation inserts a new conversation. The ID is generated by the
// model hook when empty.
func (s *Service) CreateConversation(conv *models.Conversation) error {
	if err := s.DB.Create(conv).Error; err != nil {
		s.logger.Error("failed to create conversation",
			"user1", conv.User1ID, "user2", conv.User2ID, "error", err)
		return err
	}
	return nil
}

// GetConversationByID returns the conversation or a ResourceNotFound error.
func (s *Service) GetConversationByID(id string) (*models.Conversation, error) {
	var conv models.Conversation

	err := s.DB.Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ResourceNotFound(fmt.Sprintf("conversation %s not found", id))
	}
	if err != nil {
		s.logger.Error("failed to get conversation", "conversation_id", id, "error", err)
		return nil, err
	}
	return &conv, nil
}

// FindConversationBetween looks up a conversation between the two users in
// either field order. It returns nil, nil when there is none.
func (s *Service) FindConversationBetween(userA, userB string) (*models.Conversation, error) {
	var conv models.Conversation

	err := s.DB.
		Where("(user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?)", userA, userB, userB, userA).
		Order("created_at asc").
		First(&conv).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to find conversation", "user_a", userA, "user_b", userB, "error", err)
		return nil, err
	}
	return &conv, nil
}

// GetConversationsForUser returns every conversation userID takes part in,
// newest first.
func (s *Service) GetConversationsForUser(userID string) ([]models.Conversation, error) {
	convs := make([]models.Conversation, 0)

	if err := s.DB.Where("user1 = ? OR user2 = ?", userID, userID).
		Order("created_at desc").
		Find(&convs).Error; err != nil {
		s.logger.Error("failed to list conversations", "user_id", userID, "error", err)
		return nil, err
	}
	return convs, nil
}

// DeleteConversation removes the conversation, returning ResourceNotFound
// when nothing was deleted.
func (s *Service) DeleteConversation(id string) error {
	result := s.DB.Where("id = ?", id).Delete(&models.Conversation{})
	if result.Error != nil {
		s.logger.Error("failed to delete conversation", "conversation_id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ResourceNotFound(fmt.Sprintf("conversation %s not found", id))
	}
	return nil
}
