package chat

import (
	"net/http"
	"time"

	"chat-service/internal/logger"
	"chat-service/internal/session"
	"chat-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler authorizes websocket handshakes against the same session
// store and cookie the HTTP layer uses, then hands accepted
// connections to the hub.
type Handler struct {
	hub       *Hub
	store     session.Store
	directory user.Directory
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, store session.Store, directory user.Directory) *Handler {
	return &Handler{
		hub:       hub,
		store:     store,
		directory: directory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve runs the handshake. The session check happens before the
// upgrade: a rejected connection is never counted.
func (h *Handler) Serve(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing session",
		})
		return
	}

	sess, err := h.store.Get(c.Request.Context(), cookie.Value)
	if err != nil {
		// store unreachable: fail closed
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "session store unavailable",
		})
		return
	}

	if sess == nil || time.Now().After(sess.ExpiresAt) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid session",
		})
		return
	}

	// identity attachment is best-effort; a deleted user chats as
	// anonymous, the connection itself stays authorized
	name := AnonymousName
	if u, err := h.directory.FindByID(c.Request.Context(), sess.UserID); err == nil && u != nil {
		if n := u.Name(); n != "" {
			name = n
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logger.Warn("websocket upgrade failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	client := newClient(h.hub, conn, name)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
