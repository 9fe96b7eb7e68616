package chathub

import (
	"sync"
	"time"

	"strife/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// sendBufferSize is the number of events queued per client before it is dropped.
	sendBufferSize = 64
)

// WebSocketClient implements chathub.Client over a gorilla/websocket connection.
type WebSocketClient struct {
	UserID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.ConversationEvent

	closeOnce sync.Once
}

// NewWebSocketClient wraps an upgraded connection for userID.
func NewWebSocketClient(hub *ManagerService, userID string, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ConversationEvent, sendBufferSize),
	}
}

func (c *WebSocketClient) GetUserID() string                               { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ConversationEvent { return c.Send }

// Run starts the pumps for the WebSocket.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump and closes the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}
