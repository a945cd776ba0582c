package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// handleWebSocket upgrades the connection and pushes one JSON snapshot per
// engine tick until the client disconnects or the hub shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("ws upgrade failed")
		return
	}

	id, ch := s.hub.Subscribe()
	s.log.Debug().Str("subscriber", id).Msg("ws client connected")

	defer func() {
		s.hub.Unsubscribe(id)
		conn.Close()
		s.log.Debug().Str("subscriber", id).Msg("ws client disconnected")
	}()

	// Send the current state immediately so the client does not wait for
	// the next tick.
	if err := writeSnapshot(conn, s.engine.Snapshot()); err != nil {
		return
	}

	// Reader goroutine: drain client frames and detect disconnect.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-ch:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(wsWriteTimeout))
				return
			}
			if err := writeSnapshot(conn, snap); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
