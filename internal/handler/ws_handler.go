package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler authorizes websocket requests and upgrades them into live
// sessions. Browsers cannot set headers on websocket requests, so the
// token travels in the query string.
type WSHandler struct {
	hub          *ws.Hub
	authService  service.AuthService
	boardService service.BoardService
	logger       *zap.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *ws.Hub, authService service.AuthService, boardService service.BoardService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:          hub,
		authService:  authService,
		boardService: boardService,
		logger:       logger,
	}
}

// HandleBoardSocket godoc
// @Summary      Board websocket
// @Description  Opens a live session on a board for moves, presence and sync
// @Tags         websocket
// @Param        boardId path string true "Board ID"
// @Param        token query string true "JWT access token"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /ws/boards/{boardId} [get]
func (h *WSHandler) HandleBoardSocket(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	claims, ok := h.validateSocketToken(c)
	if !ok {
		return
	}

	principal := access.Principal{UserID: claims.UserID, Tenant: claims.Tenant, Role: claims.Role}
	if _, err := h.boardService.AuthorizeBoardAccess(c.Request.Context(), principal, boardID); err != nil {
		handleServiceError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	snapshot := func(ctx context.Context, boardID uuid.UUID) (interface{}, error) {
		return h.boardService.BuildSyncState(ctx, boardID)
	}

	client := ws.NewClient(h.hub, conn, boardID, claims.UserID, claims.Name, snapshot, h.logger)
	client.Start(c.Request.Context())
}

// HandleNotificationSocket godoc
// @Summary      Notification websocket
// @Description  Opens a personal session that receives assignment, mention and overdue events
// @Tags         websocket
// @Param        token query string true "JWT access token"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} response.ErrorResponse
// @Router       /ws/notifications [get]
func (h *WSHandler) HandleNotificationSocket(c *gin.Context) {
	claims, ok := h.validateSocketToken(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := ws.NewNotificationClient(h.hub, conn, claims.UserID, claims.Name, h.logger)
	client.Start(c.Request.Context())
}

func (h *WSHandler) validateSocketToken(c *gin.Context) (*service.TokenClaims, bool) {
	token := c.Query("token")
	if token == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Token required")
		return nil, false
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token")
		return nil, false
	}

	return claims, true
}
