// internal/handler/websocket_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"attendance-service/internal/broadcast"
	"attendance-service/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketHandler streams scan notices to connected clients
type WebSocketHandler struct {
	broadcaster *broadcast.Broadcaster
	upgrader    websocket.Upgrader
	logger      *utils.ServiceLogger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(broadcaster *broadcast.Broadcaster, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same trust model as the HTTP API; CORS is handled there
				return true
			},
		},
		logger: utils.NewServiceLogger(logger, "websocket-handler"),
	}
}

// RegisterRoutes registers the scan feed route
func (h *WebSocketHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws/scans", h.HandleScanFeed)
}

// HandleScanFeed upgrades the connection and streams scan notices until
// the client disconnects
func (h *WebSocketHandler) HandleScanFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	id, feed := h.broadcaster.Subscribe()
	h.logger.Info("Scan feed client connected",
		zap.String("subscriber_id", id),
		zap.String("remote_addr", c.ClientIP()),
	)

	done := make(chan struct{})
	go h.writePump(conn, feed, done, id)
	h.readPump(conn)

	h.broadcaster.Unsubscribe(id)
	<-done
	conn.Close()
	h.logger.Info("Scan feed client disconnected", zap.String("subscriber_id", id))
}

// readPump drains control frames and returns when the client goes away
func (h *WebSocketHandler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards notices and keeps the connection alive with pings.
// Exits when the feed channel is closed by Unsubscribe.
func (h *WebSocketHandler) writePump(conn *websocket.Conn, feed <-chan broadcast.ScanNotice, done chan<- struct{}, id string) {
	defer close(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case notice, ok := <-feed:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(notice); err != nil {
				h.logger.Debug("Scan feed write failed", zap.String("subscriber_id", id), zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
