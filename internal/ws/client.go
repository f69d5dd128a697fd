package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/database"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// SnapshotFunc builds the board snapshot returned for sync_board requests
type SnapshotFunc func(ctx context.Context, boardID uuid.UUID) (interface{}, error)

// Client is one authorized connection session. Board sessions subscribe to
// a board's group; personal sessions subscribe to the user's own group and
// only ever receive notification events.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	boardID  uuid.UUID
	userID   uuid.UUID
	userName string
	personal bool
	snapshot SnapshotFunc
	logger   *zap.Logger
}

// NewClient creates a board session for an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, boardID, userID uuid.UUID, userName string, snapshot SnapshotFunc, logger *zap.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
		boardID:  boardID,
		userID:   userID,
		userName: userName,
		snapshot: snapshot,
		logger:   logger,
	}
}

// NewNotificationClient creates a personal session for an upgraded
// connection. It joins the user's own group instead of a board group.
func NewNotificationClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, userName string, logger *zap.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
		userID:   userID,
		userName: userName,
		personal: true,
		logger:   logger,
	}
}

// Start registers the session with the hub and launches the pumps. Board
// sessions also announce presence to the other subscribers. It returns
// immediately; the session lives until the connection drops or the hub
// removes it.
func (c *Client) Start(ctx context.Context) {
	c.hub.Register(c)
	go c.writePump()
	if database.GetRedis() != nil {
		go c.subscribeChannel()
	}
	if !c.personal {
		c.hub.Publish(ctx, c.boardID, NewEnvelope(EventUserJoined, c.presence()), &c.userID)
	}
	go c.readPump()
}

func (c *Client) presence() PresencePayload {
	return PresencePayload{UserID: c.userID, UserName: c.userName}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		if !c.personal {
			c.hub.Publish(context.Background(), c.boardID, NewEnvelope(EventUserLeft, c.presence()), &c.userID)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Unexpected websocket close",
					zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Warn("Discarding malformed client message", zap.Error(err))
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case MessagePing:
		c.sendDirect(NewEnvelope(EventPong, nil))
	case MessageTypingComment:
		if c.personal {
			c.logger.Warn("typing_comment received on a notification session",
				zap.String("user_id", c.userID.String()))
			return
		}
		var typing TypingPayload
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &typing); err != nil {
				c.logger.Warn("Discarding malformed typing payload", zap.Error(err))
				return
			}
		}
		// identity always comes from the session, not the payload
		typing.UserID = c.userID
		typing.UserName = c.userName
		c.hub.Publish(context.Background(), c.boardID, NewEnvelope(EventUserTyping, typing), &c.userID)
	case MessageSyncBoard:
		if c.personal {
			c.logger.Warn("sync_board received on a notification session",
				zap.String("user_id", c.userID.String()))
			return
		}
		c.sendSnapshot()
	case MessageMarkRead:
		c.ackNotification(msg.Data)
	default:
		c.logger.Warn("Unknown message type from client", zap.String("type", msg.Type))
	}
}

// ackNotification records that the user saw a notification. Notifications
// are not stored server-side, so the ack is logged for tracing only.
func (c *Client) ackNotification(raw json.RawMessage) {
	if !c.personal {
		c.logger.Warn("mark_read received on a board session",
			zap.String("user_id", c.userID.String()))
		return
	}
	var ack MarkReadPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ack); err != nil {
			c.logger.Warn("Discarding malformed mark_read payload", zap.Error(err))
			return
		}
	}
	c.logger.Debug("Notification acknowledged",
		zap.String("notification_id", ack.NotificationID.String()),
		zap.String("user_id", c.userID.String()))
}

func (c *Client) sendSnapshot() {
	if c.snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := c.snapshot(ctx, c.boardID)
	if err != nil {
		c.logger.Error("Failed to build board snapshot",
			zap.String("board_id", c.boardID.String()), zap.Error(err))
		return
	}
	c.sendDirect(NewEnvelope(EventBoardSync, state))
}

// sendDirect queues a reply for this session only
func (c *Client) sendDirect(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("Failed to marshal direct reply", zap.Error(err))
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		c.hub.dropSlow(c)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribeChannel forwards events from the session's Redis channel,
// skipping board events whose originator is this user
func (c *Client) subscribeChannel() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Recovered from panic in channel subscription", zap.Any("panic", r))
		}
	}()

	subscribe := database.SubscribeBoardEvents
	channelID := c.boardID.String()
	if c.personal {
		subscribe = database.SubscribeUserEvents
		channelID = c.userID.String()
	}
	pubsub := subscribe(context.Background(), channelID)
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame eventFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				c.logger.Warn("Discarding malformed channel event", zap.Error(err))
				continue
			}
			if frame.ExcludeUserID != nil && *frame.ExcludeUserID == c.userID {
				continue
			}
			select {
			case c.send <- frame.Payload:
			case <-c.done:
				return
			default:
				c.hub.dropSlow(c)
				return
			}
		case <-c.done:
			return
		}
	}
}
