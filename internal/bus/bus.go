// Package bus provides the broadcast message channel peers coordinate
// over. The channel is best-effort: no ordering across receivers, no
// delivery guarantee, duplicates possible, and every subscriber in the
// room receives each message, the sender included. The game protocol
// is designed to survive all of that, so implementations don't try to
// paper over it.
package bus

import "github.com/tambolist/tambola/internal/protocol"

// Handler receives one delivered command. It must not block; the read
// loop that invokes it is the peer's only inbound path.
type Handler func(cmd *protocol.Command)

// Bus is a broadcast channel scoped to one room.
type Bus interface {
	// Send broadcasts a command to every peer in the room, including
	// the sender. Fire-and-forget: a nil error means the message was
	// handed to the transport, not that anyone received it.
	Send(cmd *protocol.Command) error

	// OnMessage registers the single inbound handler. Must be called
	// before the first delivery; later calls replace the handler.
	OnMessage(fn Handler)

	// Close tears the subscription down. Send after Close returns
	// apperrors.ErrBusClosed.
	Close() error
}
