// Package chathub pushes conversation events to the participants' live
// connections. A single goroutine (Run) owns client registration and event
// fan-out; events arrive either from Redis Pub/Sub or directly via PublishEvent.
package chathub

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"strife/backend/internal/models"
)

// eventBufferSize bounds events queued for fan-out before PublishEvent gives up.
const eventBufferSize = 256

// ErrHubBusy is returned by PublishEvent when the event queue is full.
var ErrHubBusy = errors.New("event hub queue is full")

// ManagerService keeps one live client per user and routes events to them.
type ManagerService struct {
	clients map[string]Client
	mu      sync.RWMutex

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan models.ConversationEvent

	// Events is the optional Redis source of events published by any instance.
	Events EventSource

	done   chan struct{}
	logger *slog.Logger
}

// NewManagerService creates a hub. events may be nil, in which case only
// PublishEvent feeds the hub.
func NewManagerService(events EventSource, logger *slog.Logger) *ManagerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManagerService{
		clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.ConversationEvent, eventBufferSize),
		Events:       events,
		done:         make(chan struct{}),
		logger:       logger.With("component", "chathub"),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing all clients.
func (m *ManagerService) Run(ctx context.Context) {
	m.StartPubSubListener(ctx)
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case event := <-m.EventCh:
			m.dispatch(event)
		}
	}
}

// Register hands a client to the hub. It does not block once the hub has stopped.
func (m *ManagerService) Register(client Client) {
	select {
	case m.RegisterCh <- client:
	case <-m.done:
		client.Close()
	}
}

// Unregister removes a client from the hub. It does not block once the hub has stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.done:
	}
}

// PublishEvent queues an event for local fan-out. It lets the hub act as the
// conversation publisher when Redis is not configured.
func (m *ManagerService) PublishEvent(event models.ConversationEvent) error {
	select {
	case m.EventCh <- event:
		return nil
	default:
		return ErrHubBusy
	}
}

// IsConnected reports whether userID currently has a registered client.
func (m *ManagerService) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// register stores the client, replacing and closing any older connection of the same user.
func (m *ManagerService) register(client Client) {
	userID := client.GetUserID()

	m.mu.Lock()
	old, exists := m.clients[userID]
	m.clients[userID] = client
	m.mu.Unlock()

	if exists && old != client {
		old.Close()
		m.logger.Debug("replaced existing client", "user_id", userID)
	}
	m.logger.Debug("client registered", "user_id", userID)
}

func (m *ManagerService) unregister(client Client) {
	userID := client.GetUserID()

	m.mu.Lock()
	current, ok := m.clients[userID]
	if ok && current == client {
		delete(m.clients, userID)
	}
	m.mu.Unlock()

	if ok && current == client {
		client.Close()
		m.logger.Debug("client unregistered", "user_id", userID)
	}
}

// dispatch sends the event to every connected participant. A client whose
// buffer is full is dropped.
func (m *ManagerService) dispatch(event models.ConversationEvent) {
	for _, userID := range event.Participants {
		m.mu.RLock()
		client, ok := m.clients[userID]
		m.mu.RUnlock()
		if !ok {
			continue
		}

		select {
		case client.GetSendChannel() <- event:
		default:
			m.logger.Warn("dropping slow client", "user_id", userID, "event", event.Type)
			m.unregister(client)
		}
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]Client)
	m.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
