package models

// Event types pushed to connected participants.
const (
	EventConversationCreated = "conversation.created"
	EventConversationDeleted = "conversation.deleted"
)

// ConversationEvent describes a change to a conversation. It travels over
// Redis Pub/Sub between instances and is written as-is to websocket clients.
type ConversationEvent struct {
	Type         string       `json:"type"`
	Conversation Conversation `json:"conversation"`
	// Participants are the user IDs that should receive the event.
	Participants []string `json:"participants"`
}

// NewConversationEvent builds an event addressed to both participants of conv.
func NewConversationEvent(eventType string, conv Conversation) ConversationEvent {
	return ConversationEvent{
		Type:         eventType,
		Conversation: conv,
		Participants: conv.Participants(),
	}
}
