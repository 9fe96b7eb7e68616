package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"strife/backend/internal/apperror"
	"strife/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func userCacheKey(userID string) string {
	return "user:" + userID
}

// SaveUser inserts a new user (empty ID) or updates an existing one in
// PostgreSQL, and drops its cache entry.
func (s *Service) SaveUser(user *models.User) error {
	var err error
	if user.ID == "" {
		err = s.DB.Create(user).Error
	} else {
		err = s.DB.Save(user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return err
	}

	if s.Redis != nil {
		if err := s.Redis.Del(s.Ctx, userCacheKey(user.ID)).Err(); err != nil {
			s.logger.Warn("failed to invalidate user cache", "user_id", user.ID, "error", err)
		}
	}
	return nil
}

// GetUserByID resolves a user reference. Redis is consulted first when
// configured; misses fall through to PostgreSQL and are cached.
func (s *Service) GetUserByID(userID string) (*models.User, error) {
	if user, ok := s.cachedUser(userID); ok {
		return user, nil
	}

	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ResourceNotFound(fmt.Sprintf("user %s not found", userID))
	}
	if err != nil {
		s.logger.Error("failed to get user", "user_id", userID, "error", err)
		return nil, err
	}

	s.cacheUser(&user)
	return &user, nil
}

func (s *Service) cachedUser(userID string) (*models.User, bool) {
	if s.Redis == nil {
		return nil, false
	}

	data, err := s.Redis.Get(s.Ctx, userCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("user cache read failed", "user_id", userID, "error", err)
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("corrupt user cache entry", "user_id", userID, "error", err)
		return nil, false
	}
	return &user, true
}

func (s *Service) cacheUser(user *models.User) {
	if s.Redis == nil {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.Redis.Set(s.Ctx, userCacheKey(user.ID), data, s.UserCacheTTL).Err(); err != nil {
		s.logger.Warn("user cache write failed", "user_id", user.ID, "error", err)
	}
}

// PublishEvent publishes a conversation event to Redis Pub/Sub.
func (s *Service) PublishEvent(event models.ConversationEvent) error {
	if s.Redis == nil {
		return ErrRedisDisabled
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, EventsChannel, msgBytes).Err()
}

// SubscribeToEvents subscribes to the conversation events channel. It
// returns nil when Redis is not configured.
func (s *Service) SubscribeToEvents() *redis.PubSub {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Subscribe(s.Ctx, EventsChannel)
}
