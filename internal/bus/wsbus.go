package bus

import (
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tambolist/tambola/internal/apperrors"
	"github.com/tambolist/tambola/internal/logger"
	"github.com/tambolist/tambola/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxReconnectAttempts = 5
	reconnectInterval    = 2 * time.Second
)

// WebsocketBus joins a relay room over a websocket. The relay fans
// every message out to all room members, the sender included.
type WebsocketBus struct {
	roomURL string

	mu      sync.Mutex
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	handler Handler
	closed  bool

	reconnecting   atomic.Bool
	reconnectCount int
}

var _ Bus = (*WebsocketBus)(nil)

// DialWebsocket connects to a relay endpoint and subscribes to room.
func DialWebsocket(endpoint, room string) (*WebsocketBus, error) {
	if room == "" {
		return nil, apperrors.ErrRoomRequired
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("room", room)
	u.RawQuery = q.Encode()

	b := &WebsocketBus{
		roomURL: u.String(),
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
	}
	if err := b.connect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *WebsocketBus) connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(b.roomURL, nil)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()

	go b.readPump(conn)
	go b.writePump(conn)
	return nil
}

// Send queues a command for broadcast. The queue is bounded; under
// sustained backpressure the message is dropped, which the protocol
// tolerates the same way it tolerates transport loss.
func (b *WebsocketBus) Send(cmd *protocol.Command) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return apperrors.ErrBusClosed
	}

	data, err := protocol.Encode(cmd)
	if err != nil {
		return err
	}

	select {
	case b.send <- data:
		return nil
	default:
		logger.LogError("websocket send queue full, dropping %s", cmd.Command)
		return nil
	}
}

// OnMessage registers the inbound handler.
func (b *WebsocketBus) OnMessage(fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = fn
}

// Close shuts the connection down and stops reconnecting.
func (b *WebsocketBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	conn := b.conn
	b.mu.Unlock()

	close(b.done)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (b *WebsocketBus) readPump(conn *websocket.Conn) {
	defer b.handleReadExit()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.LogError("websocket read: %v", err)
			}
			return
		}

		cmd, err := protocol.Decode(message)
		if err != nil {
			logger.LogError("dropping undecodable message: %v", err)
			continue
		}

		b.mu.Lock()
		fn := b.handler
		b.mu.Unlock()
		if fn != nil {
			fn(cmd)
		}
	}
}

func (b *WebsocketBus) handleReadExit() {
	if r := recover(); r != nil {
		logger.LogPanic(r)
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()

	if !closed && !b.reconnecting.Load() {
		go b.tryReconnect()
	}
}

func (b *WebsocketBus) tryReconnect() {
	b.reconnecting.Store(true)
	defer b.reconnecting.Store(false)

	for b.reconnectCount < maxReconnectAttempts {
		b.reconnectCount++
		time.Sleep(reconnectInterval)

		b.mu.Lock()
		closed := b.closed
		b.mu.Unlock()
		if closed {
			return
		}

		logger.LogInfo("reconnecting to relay (attempt %d/%d)", b.reconnectCount, maxReconnectAttempts)
		if err := b.connect(); err == nil {
			b.reconnectCount = 0
			return
		}
	}

	logger.LogError("giving up after %d reconnect attempts", maxReconnectAttempts)
	_ = b.Close()
}

func (b *WebsocketBus) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message := <-b.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-b.done:
			return
		}
	}
}

// String describes the bus for logs.
func (b *WebsocketBus) String() string {
	return fmt.Sprintf("websocket(%s)", b.roomURL)
}
