// Package relay is the dumb pipe between peers: a websocket endpoint
// that fans every message out to every member of the same room, the
// sender included. It never inspects payloads and keeps no game
// state; all authority lives in the peers.
package relay

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tambolist/tambola/internal/config"
	"github.com/tambolist/tambola/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // peers connect from anywhere; the game trusts nobody anyway
	},
}

// Server accepts peer connections and relays room traffic.
type Server struct {
	cfg  *config.Config
	http *http.Server

	mu    sync.Mutex
	rooms map[string]map[*member]struct{}
}

// New creates a relay for the configured listen address.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:   cfg,
		rooms: make(map[string]map[*member]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Relay.Host, cfg.Relay.Port),
		Handler: mux,
	}
	return s
}

// Handler exposes the relay's HTTP surface for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving until Shutdown.
func (s *Server) Start() error {
	logger.LogInfo("relay listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains connections and stops the listener.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.http.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		http.Error(w, "room query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.LogError("upgrade failed: %v", err)
		return
	}

	m := &member{
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.join(room, m)

	go m.writePump()
	go s.readPump(room, m)
}

func (s *Server) join(room string, m *member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms[room] == nil {
		s.rooms[room] = make(map[*member]struct{})
	}
	s.rooms[room][m] = struct{}{}
	logger.LogInfo("member joined room %q (%d total)", room, len(s.rooms[room]))
}

func (s *Server) leave(room string, m *member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if members, ok := s.rooms[room]; ok {
		delete(members, m)
		if len(members) == 0 {
			delete(s.rooms, room)
		}
	}
}

// broadcast enqueues data to every member of room, the sender
// included. A member whose queue is full is dropped rather than
// allowed to stall the room.
func (s *Server) broadcast(room string, data []byte) {
	s.mu.Lock()
	var stalled []*member
	for m := range s.rooms[room] {
		select {
		case m.send <- data:
		default:
			stalled = append(stalled, m)
		}
	}
	for _, m := range stalled {
		delete(s.rooms[room], m)
	}
	s.mu.Unlock()

	for _, m := range stalled {
		logger.LogError("dropping stalled member from room %q", room)
		m.close()
	}
}

// RoomSize reports the current membership of a room.
func (s *Server) RoomSize(room string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms[room])
}

func (s *Server) readPump(room string, m *member) {
	defer func() {
		s.leave(room, m)
		m.close()
	}()

	m.conn.SetReadLimit(maxMessageSize)
	_ = m.conn.SetReadDeadline(time.Now().Add(pongWait))
	m.conn.SetPongHandler(func(string) error {
		_ = m.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := m.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.LogError("read error: %v", err)
			}
			return
		}
		s.broadcast(room, data)
	}
}
