package ws

import (
	"net/http"
	"strconv"
	"time"

	"dripfit/config"
	"dripfit/internal/auth"
	"dripfit/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeRedemptionFeed upgrades a staff dashboard connection onto the
// redemption feed for its gym. Token and gym id come as query params
// because browsers cannot set headers on ws dials.
func UpgradeRedemptionFeed(cfg *config.JWTConfig, hub *FeedHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		if claims.Role != domain.RoleStaff && claims.Role != domain.RoleAdmin {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"staff only"}`))
			return
		}
		gymID := claims.GymID
		if v := c.Query("gym_id"); v != "" && claims.Role == domain.RoleAdmin {
			if n, err := strconv.ParseUint(v, 10, 32); err == nil {
				gymID = uint(n)
			}
		}
		if gymID == 0 {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"gym_id required"}`))
			return
		}

		client := &Client{
			UserID: claims.UserID,
			GymID:  gymID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()
		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
