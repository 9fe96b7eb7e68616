package storage_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"strife/backend/internal/apperror"
	"strife/backend/internal/models"
	"strife/backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the service schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func createUser(t *testing.T, s *storage.Service, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name}
	require.NoError(t, s.SaveUser(u))
	return u
}

func TestConversationRoundTrip(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	conv := &models.Conversation{ID: uuid.NewString(), User1ID: "user-a", User2ID: "user-b"}
	require.NoError(t, s.CreateConversation(conv))

	got, err := s.GetConversationByID(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, "user-a", got.User1ID)
	assert.Equal(t, "user-b", got.User2ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateConversation_GeneratesID(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	conv := &models.Conversation{User1ID: "a", User2ID: "b"}
	require.NoError(t, s.CreateConversation(conv))

	_, err := uuid.Parse(conv.ID)
	assert.NoError(t, err)
}

func TestGetConversationByID_NotFound(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	got, err := s.GetConversationByID("missing")

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperror.ErrResourceNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestFindConversationBetween_EitherOrder(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	conv := &models.Conversation{User1ID: "alice", User2ID: "bob"}
	require.NoError(t, s.CreateConversation(conv))

	forward, err := s.FindConversationBetween("alice", "bob")
	require.NoError(t, err)
	backward, err := s.FindConversationBetween("bob", "alice")
	require.NoError(t, err)

	require.NotNil(t, forward)
	require.NotNil(t, backward)
	assert.Equal(t, conv.ID, forward.ID)
	assert.Equal(t, forward.ID, backward.ID)

	none, err := s.FindConversationBetween("alice", "carol")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindConversationBetween_DuplicatePairReturnsOldest(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)
	base := time.Now().Add(-time.Hour).UTC()

	newer := &models.Conversation{User1ID: "bob", User2ID: "alice", CreatedAt: base.Add(time.Minute)}
	older := &models.Conversation{User1ID: "alice", User2ID: "bob", CreatedAt: base}
	require.NoError(t, s.CreateConversation(newer))
	require.NoError(t, s.CreateConversation(older))

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		found, err := s.FindConversationBetween(pair[0], pair[1])
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, older.ID, found.ID)
	}
}

func TestGetConversationsForUser(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	require.NoError(t, s.CreateConversation(&models.Conversation{User1ID: "alice", User2ID: "bob"}))
	require.NoError(t, s.CreateConversation(&models.Conversation{User1ID: "carol", User2ID: "alice"}))
	require.NoError(t, s.CreateConversation(&models.Conversation{User1ID: "bob", User2ID: "carol"}))

	convs, err := s.GetConversationsForUser("alice")
	require.NoError(t, err)
	assert.Len(t, convs, 2)
	for _, c := range convs {
		assert.True(t, c.HasParticipant("alice"))
	}

	empty, err := s.GetConversationsForUser("dave")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeleteConversation(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	conv := &models.Conversation{User1ID: "alice", User2ID: "bob"}
	require.NoError(t, s.CreateConversation(conv))

	require.NoError(t, s.DeleteConversation(conv.ID))

	_, err := s.GetConversationByID(conv.ID)
	assert.ErrorIs(t, err, apperror.ErrResourceNotFound)

	err = s.DeleteConversation(conv.ID)
	assert.ErrorIs(t, err, apperror.ErrResourceNotFound)
}

func TestSaveUser_DuplicateUsername(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	createUser(t, s, "alice")
	err := s.SaveUser(&models.User{Username: "alice"})

	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestGetUserByID(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)
	alice := createUser(t, s, "alice")

	got, err := s.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = s.GetUserByID("ghost")
	assert.ErrorIs(t, err, apperror.ErrResourceNotFound)
}

func TestGetUserByID_ReadThroughCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := storage.NewStorageService(newTestDB(t), rdb)
	s.UserCacheTTL = time.Minute
	alice := createUser(t, s, "alice")

	_, err := s.GetUserByID(alice.ID)
	require.NoError(t, err)

	cached, err := mr.Get("user:" + alice.ID)
	require.NoError(t, err, "user should be cached after first lookup")
	assert.Contains(t, cached, `"username":"alice"`)
	assert.Equal(t, time.Minute, mr.TTL("user:"+alice.ID))

	// Served from Redis even when the row is gone.
	require.NoError(t, s.DB.Delete(&models.User{}, "id = ?", alice.ID).Error)
	got, err := s.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestSaveUser_InvalidatesCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := storage.NewStorageService(newTestDB(t), rdb)
	alice := createUser(t, s, "alice")

	_, err := s.GetUserByID(alice.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists("user:"+alice.ID))

	alice.Username = "alice2"
	require.NoError(t, s.SaveUser(alice))
	assert.False(t, mr.Exists("user:"+alice.ID))

	got, err := s.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
}

func TestPublishAndSubscribeEvents(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := storage.NewStorageService(newTestDB(t), rdb)

	sub := s.SubscribeToEvents()
	require.NotNil(t, sub)
	defer sub.Close()
	_, err := sub.Receive(s.Ctx) // subscription confirmation
	require.NoError(t, err)

	ev := models.NewConversationEvent(models.EventConversationCreated,
		models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"})
	require.NoError(t, s.PublishEvent(ev))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, storage.EventsChannel, msg.Channel)
		var got models.ConversationEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ev.Type, got.Type)
		assert.Equal(t, "c1", got.Conversation.ID)
		assert.Equal(t, []string{"alice", "bob"}, got.Participants)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestRedisDisabled(t *testing.T) {
	s := storage.NewStorageService(newTestDB(t), nil)

	assert.Nil(t, s.SubscribeToEvents())
	assert.ErrorIs(t, s.PublishEvent(models.ConversationEvent{}), storage.ErrRedisDisabled)
}
