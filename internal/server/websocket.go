package server

import (
	"net/http"
	"net/url"
	"time"

	"ush/internal/constants"
	"ush/internal/env"
	"ush/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// CLI tools connect without an origin header
		if origin == "" {
			return true
		}

		if loopbackOrigin(origin) {
			return true
		}

		logger.WithFields(logger.Fields{
			"origin": origin,
			"remote": r.RemoteAddr,
		}).Warn("WebSocket connection rejected, invalid origin")

		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// loopbackOrigin accepts only loopback origins. The parsed host is compared
// whole: a raw prefix match would also admit hosts like localhost.evil.com.
func loopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// SnapshotMessage is one websocket frame carrying the full environment view
type SnapshotMessage struct {
	Type         string            `json:"type"`
	Timestamp    time.Time         `json:"timestamp"`
	Environments []env.Environment `json:"environments"`
}

// handleEnvironmentStream godoc
// @Summary Environment snapshot stream
// @Description Stream the reconciled environment view over WebSocket
// @Tags environments,websocket
// @Success 101 {string} string "Switching Protocols"
// @Failure 500 {object} ErrorResponse
// @Router /ws [get]
func (s *Server) handleEnvironmentStream(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()

	// Drain client frames so close messages are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(constants.StatusStreamInterval)
	defer ticker.Stop()

	if err := s.sendSnapshot(c, ws); err != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-ticker.C:
			if err := s.sendSnapshot(c, ws); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) sendSnapshot(c echo.Context, ws *websocket.Conn) error {
	environments, err := s.envOps.List(c.Request().Context())
	if err != nil {
		logger.WithError(err).Warn("Failed to build environment snapshot")
		environments = nil
	}

	return ws.WriteJSON(SnapshotMessage{
		Type:         "environments",
		Timestamp:    time.Now(),
		Environments: environments,
	})
}
