package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/database"
	"github.com/vinilopesc/vortex-board/internal/metrics"
)

type boardBroadcast struct {
	boardID uuid.UUID
	frame   eventFrame
}

type userBroadcast struct {
	userID uuid.UUID
	frame  eventFrame
}

// Hub tracks connection sessions grouped by board, plus personal groups
// keyed by user, and fans events out to them. With Redis configured, events
// travel through the group's channel so every instance delivers them;
// without it the hub broadcasts locally. Both paths hand events to sessions
// in publish order for a given group.
type Hub struct {
	boards     map[uuid.UUID]map[*Client]bool
	users      map[uuid.UUID]map[*Client]bool
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan boardBroadcast
	personal   chan userBroadcast
	quit       chan struct{}
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewHub creates a new hub. Metrics may be nil in tests.
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		boards:     make(map[uuid.UUID]map[*Client]bool),
		users:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan boardBroadcast, 256),
		personal:   make(chan userBroadcast, 256),
		quit:       make(chan struct{}),
		metrics:    m,
		logger:     logger,
	}
}

// Run processes registrations and local broadcasts. Call it in a goroutine;
// it exits when Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.deliverToBoard(msg)
		case msg := <-h.personal:
			h.deliverToUser(msg)
		case <-h.quit:
			return
		}
	}
}

// Stop terminates the run loop
func (h *Hub) Stop() {
	close(h.quit)
}

// Register adds a session to its group
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a session from its group
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Publish fans an event out to every session subscribed to the board,
// excluding the user's own sessions when exclude is set. Delivery is
// at-least-once for connected sessions; a session whose send buffer is
// full is dropped rather than allowed to stall the board.
func (h *Hub) Publish(ctx context.Context, boardID uuid.UUID, env Envelope, exclude *uuid.UUID) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.String("type", env.Type), zap.Error(err))
		return
	}
	if h.metrics != nil {
		h.metrics.RecordEventPublished(env.Type)
	}

	frame := eventFrame{ExcludeUserID: exclude, Payload: payload}

	if database.GetRedis() != nil {
		raw, err := json.Marshal(frame)
		if err == nil {
			if err := database.PublishBoardEvent(ctx, boardID.String(), raw); err == nil {
				return
			}
			h.logger.Warn("Redis publish failed, falling back to local broadcast",
				zap.String("board_id", boardID.String()), zap.Error(err))
		}
	}

	select {
	case h.broadcast <- boardBroadcast{boardID: boardID, frame: frame}:
	case <-h.quit:
	}
}

// PublishToUser delivers an event to every session in the user's personal
// group. Users with no open notification session simply miss the event;
// nothing is stored for later delivery.
func (h *Hub) PublishToUser(ctx context.Context, userID uuid.UUID, env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("Failed to marshal personal event", zap.String("type", env.Type), zap.Error(err))
		return
	}
	if h.metrics != nil {
		h.metrics.RecordEventPublished(env.Type)
	}

	frame := eventFrame{Payload: payload}

	if database.GetRedis() != nil {
		raw, err := json.Marshal(frame)
		if err == nil {
			if err := database.PublishUserEvent(ctx, userID.String(), raw); err == nil {
				return
			}
			h.logger.Warn("Redis publish failed, falling back to local broadcast",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	select {
	case h.personal <- userBroadcast{userID: userID, frame: frame}:
	case <-h.quit:
	}
}

// BoardSessionCount returns the number of sessions subscribed to a board
func (h *Hub) BoardSessionCount(boardID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

// UserSessionCount returns the number of open notification sessions for a user
func (h *Hub) UserSessionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	group := h.groupFor(client)
	clients, ok := group[h.groupKey(client)]
	if !ok {
		clients = make(map[*Client]bool)
		group[h.groupKey(client)] = clients
	}
	clients[client] = true
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncrementWSConnections()
	}
	if client.personal {
		h.logger.Info("Notification session opened",
			zap.String("user_id", client.userID.String()))
	} else {
		h.logger.Info("Session subscribed to board",
			zap.String("board_id", client.boardID.String()),
			zap.String("user_id", client.userID.String()))
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	group := h.groupFor(client)
	key := h.groupKey(client)
	clients, ok := group[key]
	if ok {
		if _, registered := clients[client]; registered {
			delete(clients, client)
			if len(clients) == 0 {
				delete(group, key)
			}
			// send stays open so concurrent senders never hit a closed
			// channel; the pumps exit via done instead
			close(client.done)
			if h.metrics != nil {
				h.metrics.DecrementWSConnections()
			}
			if client.personal {
				h.logger.Info("Notification session closed",
					zap.String("user_id", client.userID.String()))
			} else {
				h.logger.Info("Session unsubscribed from board",
					zap.String("board_id", client.boardID.String()),
					zap.String("user_id", client.userID.String()))
			}
		}
	}
	h.mu.Unlock()
}

func (h *Hub) groupFor(client *Client) map[uuid.UUID]map[*Client]bool {
	if client.personal {
		return h.users
	}
	return h.boards
}

func (h *Hub) groupKey(client *Client) uuid.UUID {
	if client.personal {
		return client.userID
	}
	return client.boardID
}

func (h *Hub) deliverToBoard(msg boardBroadcast) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.boards[msg.boardID]))
	for client := range h.boards[msg.boardID] {
		if msg.frame.ExcludeUserID != nil && *msg.frame.ExcludeUserID == client.userID {
			continue
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.send <- msg.frame.Payload:
		default:
			h.dropSlow(client)
		}
	}
}

func (h *Hub) deliverToUser(msg userBroadcast) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.users[msg.userID]))
	for client := range h.users[msg.userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.send <- msg.frame.Payload:
		default:
			h.dropSlow(client)
		}
	}
}

// dropSlow disconnects a session that cannot keep up with its group's
// event rate. The client reconnects and issues sync_board to re-converge.
func (h *Hub) dropSlow(client *Client) {
	if h.metrics != nil {
		h.metrics.IncrementSlowConsumerDropped()
	}
	h.logger.Warn("Dropping slow consumer",
		zap.String("user_id", client.userID.String()))
	h.removeClient(client)
}
