package chathub

import "strife/backend/internal/models"

// Client is the interface for a connection that receives conversation events.
// It abstracts the underlying transport so the hub can manage clients uniformly.
type Client interface {
	// GetUserID returns the identifier of the user the client belongs to.
	GetUserID() string

	// GetSendChannel returns the channel to which the ManagerService (hub) sends
	// events intended for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.ConversationEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outgoing channel. It must be safe to call more than once.
	Close()
}
