package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"ecr/internal/auth"
	"ecr/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 64
	maxFrameSize = 4096
)

// keepalive bounds how long a silent peer may hold its subscriptions.
// pingPeriod must be shorter than pongWait.
type keepalive struct {
	pongWait   time.Duration
	pingPeriod time.Duration
	writeWait  time.Duration
}

var defaultKeepalive = keepalive{
	pongWait:   60 * time.Second,
	pingPeriod: 54 * time.Second,
	writeWait:  10 * time.Second,
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type clientMessage struct {
	Action     string `json:"action"`
	PropertyID uint   `json:"propertyId"`
}

// UpgradePropertyWS serves /ws/properties. The access token comes in the
// token query parameter; after that the client subscribes to properties.
func UpgradePropertyWS(issuer *auth.Issuer, hub *Hub) gin.HandlerFunc {
	return servePropertyWS(issuer, hub, defaultKeepalive)
}

func servePropertyWS(issuer *auth.Issuer, hub *Hub, ka keepalive) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := issuer.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn(c.Request.Context()).Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		client := NewClient(claims.UserID, claims.Role, sendBuffer)
		hub.Register(client)
		defer client.Close()

		go writePump(client, conn, ka)
		readPump(hub, client, conn, ka)
	}
}

// writePump copies messages from client.Send to the connection and pings
// the peer. A failed write closes the connection, which ends readPump.
func writePump(c *Client, conn *websocket.Conn, ka keepalive) {
	ticker := time.NewTicker(ka.pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(ka.writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(ka.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump handles subscribe/unsubscribe until the peer goes away or stops
// answering pings within pongWait.
func readPump(hub *Hub, c *Client, conn *websocket.Conn, ka keepalive) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(ka.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ka.pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.PropertyID == 0 {
			reply(c, gin.H{"type": "error", "error": "expected {action, propertyId}"})
			continue
		}
		switch msg.Action {
		case "subscribe":
			hub.Subscribe(c, msg.PropertyID)
			reply(c, gin.H{"type": "subscribed", "propertyId": msg.PropertyID})
		case "unsubscribe":
			hub.Unsubscribe(c, msg.PropertyID)
			reply(c, gin.H{"type": "unsubscribed", "propertyId": msg.PropertyID})
		default:
			reply(c, gin.H{"type": "error", "error": "unknown action"})
		}
	}
}

func reply(c *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	c.deliver(data)
}
