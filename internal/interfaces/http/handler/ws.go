package handler

import (
	"net/http"

	"github.com/avaliaai/backend/internal/infrastructure/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RealtimeHandler upgrades websocket subscriptions to the per
// occurrence change feed
type RealtimeHandler struct {
	BaseHandler
	hub            *realtime.Hub
	allowedOrigins map[string]struct{}
	logger         *zap.Logger
}

// NewRealtimeHandler creates a new realtime handler. allowOrigins
// mirrors the CORS whitelist; empty means same-origin only.
func NewRealtimeHandler(hub *realtime.Hub, allowOrigins []string, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = struct{}{}
	}
	return &RealtimeHandler{
		hub:            hub,
		allowedOrigins: allowed,
		logger:         logger,
	}
}

// Subscribe upgrades the connection and streams change cues for one
// occurrence until the client disconnects
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	occurrenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid occurrence ID")
		return
	}

	err = h.hub.Serve(c.Writer, c.Request, occurrenceID, h.checkOrigin)
	if err != nil {
		// The upgrader already wrote the handshake error response
		h.logger.Debug("Websocket upgrade failed",
			zap.String("occurrence_id", occurrenceID.String()),
			zap.Error(err))
		c.Abort()
		return
	}
}

// checkOrigin allows same-origin requests, requests without an Origin
// header (native clients) and whitelisted browser origins
func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := h.allowedOrigins["*"]; ok {
		return true
	}
	if _, ok := h.allowedOrigins[origin]; ok {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
