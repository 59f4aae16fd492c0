package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
)

type Handler struct {
	hub         *notification.Hub
	jwtManager  *auth.JWTManager
	userService user.Service
	upgrader    websocket.Upgrader
}

// NewHandler builds the websocket handler. An empty allowedOrigins accepts
// any origin.
func NewHandler(hub *notification.Hub, jwtManager *auth.JWTManager, userService user.Service, allowedOrigins []string) *Handler {
	return &Handler{
		hub:         hub,
		jwtManager:  jwtManager,
		userService: userService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, strings.TrimSpace(r.Header.Get("Origin")))
			},
		},
	}
}

// Connect upgrades a staff session to a websocket.
//
// Endpoint: GET /v1/ws?token=JWT
// Browsers cannot set headers on websocket requests, so the token travels in
// the query string.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := h.jwtManager.ParseAndValidate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !u.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if !u.Role.IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.FromContext(c).WithError(err).Warn("websocket upgrade failed")
		return
	}

	log := logging.FromContext(c).WithField("user_id", u.ID)
	log.Info("websocket connected")
	h.hub.ServeWS(conn, u.ID)
	log.Info("websocket disconnected")
}
