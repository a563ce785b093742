package peer

import "github.com/tambolist/tambola/internal/protocol"

// Roster management. The host's roster is authoritative; every other
// peer holds a read-only mirror that inbound roster broadcasts replace
// wholesale. Identities are appended as they arrive with no
// deduplication: identity equality alone marks "the same peer", and a
// rejoin under a fresh identity is a new player.

// addPlayerLocked appends id to the roster and re-renders. It never
// broadcasts; pushing the roster to the room is the caller's call.
func (p *Peer) addPlayerLocked(id string) {
	p.players = append(p.players, id)
	p.renderPlayersLocked()
	p.renderButtonsLocked()
}

// removePlayerLocked drops every occurrence of id.
func (p *Peer) removePlayerLocked(id string) {
	kept := p.players[:0]
	for _, existing := range p.players {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	p.players = kept
	p.renderPlayersLocked()
	p.renderButtonsLocked()
}

// onJoinRequestLocked is the host's side of the join protocol. In the
// lobby the joiner is accepted, acknowledged by identity, and the full
// roster is rebroadcast. Mid-game the joiner is told to hold.
func (p *Peer) onJoinRequestLocked(clientID string) {
	if p.role != RoleHost || clientID == "" {
		return
	}

	if p.status != StatusJoining {
		p.queueLocked(&protocol.Command{Command: protocol.TagHold, ClientID: clientID})
		return
	}

	p.addPlayerLocked(clientID)
	p.queueLocked(&protocol.Command{Command: protocol.TagJoined, ClientID: clientID})
	p.queueLocked(&protocol.Command{
		Command: protocol.TagPlayers,
		Players: append([]string(nil), p.players...),
	})
}

// onRosterLocked replaces a non-host peer's roster with the host's
// copy: clear, then add in received order. Local additions are
// discarded, which is what guarantees convergence after missed
// join/leave events. Replaying the same broadcast is a no-op.
func (p *Peer) onRosterLocked(ids []string) {
	if p.role == RoleHost {
		return
	}

	p.players = append(p.players[:0:0], ids...)
	p.renderPlayersLocked()
	p.renderButtonsLocked()
}

// onLeaveLocked removes a departed peer. Only the host mutates its
// roster directly; everyone else waits for the rebroadcast. A peer
// that vanishes without sending leave stays in the roster; there is
// no liveness detection.
func (p *Peer) onLeaveLocked(clientID string) {
	if p.role != RoleHost || clientID == "" {
		return
	}

	p.removePlayerLocked(clientID)
	p.queueLocked(&protocol.Command{
		Command: protocol.TagPlayers,
		Players: append([]string(nil), p.players...),
	})
}
