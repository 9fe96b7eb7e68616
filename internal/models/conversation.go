package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a 1-on-1 chat between two users, stored in the "chats" table.
// User1ID and User2ID are plain user identifiers; the users themselves are
// fetched by ID only when a caller asks for them.
type Conversation struct {
	// ID is the unique identifier of the conversation (UUID), generated on create.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// User1ID references the user who started the conversation.
	User1ID string `gorm:"column:user1;size:36;not null;index" json:"user1"`
	// User2ID references the other participant.
	User2ID string `gorm:"column:user2;size:36;not null;index" json:"user2"`
	// CreatedAt is set by GORM when the record is inserted.
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps conversations in the "chats" table.
func (Conversation) TableName() string {
	return "chats"
}

// BeforeCreate generates a UUID for the conversation if ID is not set yet.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.User1ID == userID || c.User2ID == userID)
}

// PartnerOf returns the other participant's ID, or "" if userID is not in the conversation.
func (c *Conversation) PartnerOf(userID string) string {
	switch userID {
	case "":
		return ""
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	default:
		return ""
	}
}

// Participants returns both user IDs in stored order.
func (c *Conversation) Participants() []string {
	return []string{c.User1ID, c.User2ID}
}
