package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/services"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// the connection is authenticated by token, not by cookie
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
)

// eventVisibleTo decides which live events a user receives: admins get all,
// municipality staff get their ward's, citizens get those about their own complaints.
func eventVisibleTo(user *models.User, event services.Event) bool {
	switch {
	case user.IsAdmin():
		return true
	case user.HasRole(models.RoleMunicipality):
		return user.WardID != nil && event.WardID != nil && *user.WardID == *event.WardID
	default:
		return event.OwnerID == user.ID
	}
}

// handleEvents streams complaint events to the caller over a websocket.
func (s *Server) handleEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, apiErr := currentUser(c)
		if apiErr != nil {
			respondAndAbort(c, "", apiErr.Status, nil, apiErr)
			return
		}

		events, cancel, err := s.Events.Subscribe()
		if err != nil {
			log.Printf("[WS] Failed to subscribe to events: %v", err)
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		defer cancel()

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("[WS] user %d connected", user.ID)

		closed := make(chan struct{})
		go readPump(conn, closed)

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-closed:
				log.Printf("[WS] user %d disconnected", user.ID)
				return
			case event := <-events:
				if !eventVisibleTo(user, event) {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("[WS] write to user %d failed: %v", user.ID, err)
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// readPump drains client frames so pongs and close messages are processed,
// and closes done when the connection ends.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}
	}
}
