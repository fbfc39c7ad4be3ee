package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, restrict to configured origins.
		return true
	},
}

// handleRoomSocket streams newly inserted messages for one room. There is no
// replay: a client that reconnects refetches history over the REST route.
func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	room, err := s.roomFor(r, r.PathValue("id"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := s.hub.Subscribe(room.ID)
	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.C {
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			select {
			case out <- payload:
			default:
			}
		}
	}()
	s.serveSocket(conn, out, func() { s.hub.Unsubscribe(sub) })
}

// handleRoomListSocket streams room creations and updates to the admin
// console.
func (s *Server) handleRoomListSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	watch := s.hub.WatchRooms()
	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for room := range watch.C {
			payload, err := json.Marshal(room)
			if err != nil {
				continue
			}
			select {
			case out <- payload:
			default:
			}
		}
	}()
	s.serveSocket(conn, out, func() { s.hub.UnwatchRooms(watch) })
}

// serveSocket runs the read and write pumps for one connection. cleanup runs
// exactly once, whichever side fails first.
func (s *Server) serveSocket(conn *websocket.Conn, out <-chan []byte, cleanup func()) {
	var once sync.Once
	stop := func() {
		once.Do(cleanup)
		_ = conn.Close()
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			stop()
		}()
		for {
			select {
			case payload, ok := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		defer stop()
		conn.SetReadLimit(8 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
