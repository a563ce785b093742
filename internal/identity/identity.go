// Package identity mints peer identifiers.
//
// Identities are probabilistically unique: nothing registers or
// deduplicates them, a collision inside one room is simply assumed not
// to happen. Two peers that do collide are indistinguishable to the
// protocol, which treats identity equality as "same peer".
package identity

import "github.com/google/uuid"

// New returns a fresh peer identity token. Called once per session;
// the token is immutable for the session's lifetime.
func New() string {
	return uuid.NewString()
}
