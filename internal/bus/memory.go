package bus

import (
	"sync"

	"github.com/tambolist/tambola/internal/apperrors"
	"github.com/tambolist/tambola/internal/protocol"
)

// MemoryRoom is an in-process broadcast room. Every bus attached to
// the room receives every send, the sender included, in send order.
// Used by tests and by multi-peer simulations inside one process.
type MemoryRoom struct {
	mu      sync.Mutex
	members []*MemoryBus
}

// NewMemoryRoom creates an empty room.
func NewMemoryRoom() *MemoryRoom {
	return &MemoryRoom{}
}

// Join attaches a new bus to the room.
func (r *MemoryRoom) Join() *MemoryBus {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &MemoryBus{room: r}
	r.members = append(r.members, b)
	return b
}

func (r *MemoryRoom) broadcast(cmd *protocol.Command) {
	r.mu.Lock()
	members := make([]*MemoryBus, len(r.members))
	copy(members, r.members)
	r.mu.Unlock()

	for _, m := range members {
		m.deliver(cmd)
	}
}

func (r *MemoryRoom) leave(b *MemoryBus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.members {
		if m == b {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// MemoryBus is one member's handle on a MemoryRoom.
type MemoryBus struct {
	room *MemoryRoom

	mu      sync.Mutex
	handler Handler
	closed  bool
}

var _ Bus = (*MemoryBus)(nil)

// Send broadcasts to every room member, including this one. The
// command is round-tripped through the wire encoding so in-process
// tests exercise exactly what the network would carry.
func (b *MemoryBus) Send(cmd *protocol.Command) error {
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
	decoded, err := protocol.Decode(data)
	if err != nil {
		return err
	}

	b.room.broadcast(decoded)
	return nil
}

// OnMessage registers the inbound handler.
func (b *MemoryBus) OnMessage(fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = fn
}

// Close detaches from the room.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.room.leave(b)
	return nil
}

func (b *MemoryBus) deliver(cmd *protocol.Command) {
	b.mu.Lock()
	fn := b.handler
	closed := b.closed
	b.mu.Unlock()

	if closed || fn == nil {
		return
	}
	fn(cmd)
}
