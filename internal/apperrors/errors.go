// Package apperrors holds the sentinel errors shared by the bus and
// relay layers. The game protocol itself surfaces no errors: malformed
// or out-of-role messages are dropped silently by design.
package apperrors

import "errors"

var (
	ErrBusClosed    = errors.New("message bus is closed")
	ErrRoomRequired = errors.New("a room name is required")
)
