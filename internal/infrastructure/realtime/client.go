package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultWriteTimeout    = 10 * time.Second
	defaultPingInterval    = 30 * time.Second
	defaultSendBufferSize  = 16
	defaultMaxMessageBytes = 512
)

// Client is one websocket subscription to an occurrence's feed.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	occurrenceID uuid.UUID
	send         chan []byte
}

// Serve upgrades the request and streams cues for the occurrence until
// the peer disconnects. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, occurrenceID uuid.UUID, checkOrigin func(*http.Request) bool) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	bufferSize := h.cfg.SendBufferSize
	if bufferSize <= 0 {
		bufferSize = defaultSendBufferSize
	}

	client := &Client{
		hub:          h,
		conn:         conn,
		occurrenceID: occurrenceID,
		send:         make(chan []byte, bufferSize),
	}
	h.register(occurrenceID, client)
	h.logger.Debug("Realtime subscriber connected",
		zap.String("occurrence_id", occurrenceID.String()))

	go client.writePump(h.writeTimeout(), h.pingInterval())
	client.readPump(h.maxMessageBytes())

	h.unregister(occurrenceID, client)
	h.logger.Debug("Realtime subscriber disconnected",
		zap.String("occurrence_id", occurrenceID.String()))
	return nil
}

func (h *Hub) writeTimeout() time.Duration {
	if h.cfg.WriteTimeout > 0 {
		return h.cfg.WriteTimeout
	}
	return defaultWriteTimeout
}

func (h *Hub) pingInterval() time.Duration {
	if h.cfg.PingInterval > 0 {
		return h.cfg.PingInterval
	}
	return defaultPingInterval
}

func (h *Hub) maxMessageBytes() int64 {
	if h.cfg.MaxMessageBytes > 0 {
		return h.cfg.MaxMessageBytes
	}
	return defaultMaxMessageBytes
}

// readPump drains inbound frames. The feed is one-way; clients only
// send pong control frames, so payloads are discarded.
func (c *Client) readPump(maxMessageBytes int64) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageBytes)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
