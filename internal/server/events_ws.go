package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 50 * time.Second
)

// eventMessage is what websocket clients receive for each change
type eventMessage struct {
	Type   events.EventType `json:"type"`
	Entity string           `json:"entity"`
	ID     string           `json:"id"`
	At     time.Time        `json:"at"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := make(map[string]bool, len(s.opts.Config.Security.AllowedOrigins))
	for _, o := range s.opts.Config.Security.AllowedOrigins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowed) == 0 || allowed[origin]
		},
	}
}

// handleEventStream upgrades to a websocket and forwards every bus event.
// An optional ?entity= narrows the feed.
func (s *Server) handleEventStream(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		apperrors.HandleValidationError(c, "websocket upgrade required", "Upgrade")
		return
	}
	conn, err := s.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	entity := c.Query("entity")
	sub, unsubscribe := s.opts.Bus.Subscribe(64)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	s.logger.Debug("event stream client connected", "remote", c.ClientIP(), "entity", entity)
	for {
		select {
		case <-closed:
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case event, ok := <-sub:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if entity != "" && event.Entity != entity {
				continue
			}
			data, err := json.Marshal(eventMessage{Type: event.Type, Entity: event.Entity, ID: event.ID, At: event.At})
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
