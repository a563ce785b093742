package bus

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tambolist/tambola/internal/apperrors"
	"github.com/tambolist/tambola/internal/logger"
	"github.com/tambolist/tambola/internal/protocol"
)

const channelPrefix = "tambola:room:"

// RedisBus broadcasts through a redis PUB/SUB channel, one channel per
// room. Peers that can all reach the same redis need no relay server.
// Redis delivers each publish to every subscriber including the
// publisher, which is exactly the room semantics the protocol expects.
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
	room   string

	mu      sync.Mutex
	handler Handler
	closed  bool

	cancel context.CancelFunc
}

var _ Bus = (*RedisBus)(nil)

// DialRedis connects to redis and subscribes to the room channel.
func DialRedis(addr, password string, db int, room string) (*RedisBus, error) {
	if room == "" {
		return nil, apperrors.ErrRoomRequired
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	b := &RedisBus{
		client: client,
		pubsub: client.Subscribe(runCtx, channelPrefix+room),
		room:   room,
		cancel: runCancel,
	}

	// Force the subscription onto the wire before the first Send so a
	// peer cannot miss its own loopback.
	if _, err := b.pubsub.Receive(runCtx); err != nil {
		runCancel()
		_ = client.Close()
		return nil, err
	}

	go b.readLoop(runCtx)
	return b, nil
}

// Send publishes to the room channel.
func (b *RedisBus) Send(cmd *protocol.Command) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Publish(ctx, channelPrefix+b.room, data).Err()
}

// OnMessage registers the inbound handler.
func (b *RedisBus) OnMessage(fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = fn
}

// Close unsubscribes and releases the redis connection.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	_ = b.pubsub.Close()
	return b.client.Close()
}

func (b *RedisBus) readLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	ch := b.pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			cmd, err := protocol.Decode([]byte(msg.Payload))
			if err != nil {
				logger.LogError("dropping undecodable message: %v", err)
				continue
			}

			b.mu.Lock()
			fn := b.handler
			closed := b.closed
			b.mu.Unlock()
			if closed {
				return
			}
			if fn != nil {
				fn(cmd)
			}

		case <-ctx.Done():
			return
		}
	}
}
