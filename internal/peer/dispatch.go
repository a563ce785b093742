package peer

import "github.com/tambolist/tambola/internal/protocol"

// dispatchLocked routes one inbound broadcast to its handler. Role
// gating happens inside the handlers: host-only commands are ignored
// by non-hosts, addressed commands by everyone but the addressee.
// Unknown tags are dropped without side effects.
//
// The bus cannot verify the sender, so a forged host-only command is
// acted on exactly as a genuine one would be. That trust gap is part
// of the protocol, not a bug here; a signing layer would slot in as a
// verification step before this switch.
func (p *Peer) dispatchLocked(cmd *protocol.Command) {
	if p.closed {
		return
	}

	switch cmd.Command {
	case protocol.TagHostIdentify:
		p.onHostIdentifyLocked()
	case protocol.TagIAmHost:
		p.onHostAnnouncedLocked(cmd.ClientID)
	case protocol.TagJoin:
		p.onJoinRequestLocked(cmd.ClientID)
	case protocol.TagJoined:
		p.onJoinedLocked(cmd.ClientID)
	case protocol.TagHold:
		p.onHoldLocked(cmd.ClientID)
	case protocol.TagLeave:
		p.onLeaveLocked(cmd.ClientID)
	case protocol.TagPlayers:
		p.onRosterLocked(cmd.Players)
	case protocol.TagStart:
		p.onStartLocked()
	case protocol.TagReset:
		p.onResetLocked()
	case protocol.TagCall:
		p.onCallLocked(cmd.Number)
	case protocol.TagClaim:
		p.onClaimLocked(cmd.Claimer, cmd.GameCard)
	case protocol.TagClaimMade:
		p.onClaimMadeLocked(cmd.Claimer)
	case protocol.TagClaimValid:
		p.onClaimValidLocked(cmd.Claimer)
	case protocol.TagClaimInvalid:
		p.onClaimInvalidLocked(cmd.Claimer)
	default:
		// Out-of-protocol message: no side effect, no error.
	}
}
