package peer

import (
	"github.com/tambolist/tambola/internal/logger"
	"github.com/tambolist/tambola/internal/protocol"
)

// Host election. Every peer asks the room who hosts and arms a
// randomized timeout; an existing host answers every ask. A peer whose
// timeout fires while it still knows of nobody promotes itself.
//
// Two peers starting inside the same window can both self-promote.
// The protocol has no quorum primitive, so this split-brain condition
// is observed and logged but not resolved. The coordinator state is
// confined to this file so a tie-breaking strategy (for instance
// lowest identity wins on a second iamhost) could replace it without
// touching the lifecycle or claim code.

// startElectionLocked broadcasts the host query and arms the
// self-promotion timeout, drawn uniformly from the election window.
func (p *Peer) startElectionLocked() {
	p.queueLocked(&protocol.Command{Command: protocol.TagHostIdentify})

	min, max := p.cfg.ElectionWindow()
	p.electionTimer = p.clock.AfterFunc(p.rng.Between(min, max), func() {
		p.run(func() { p.onElectionTimeoutLocked() })
	})
	p.view.Status("looking for a host...")
}

// onElectionTimeoutLocked fires the self-promotion check. A host
// announcement cancels the timer under the lock, so a late-firing
// callback re-checks its precondition here and backs off.
func (p *Peer) onElectionTimeoutLocked() {
	p.electionTimer = nil
	if p.hostID != "" || p.phase != electSeeking {
		return
	}
	if len(p.players) > 0 {
		// Someone is already tracked: a host is active or imminent.
		return
	}

	p.role = RoleHost
	p.hostID = p.id
	p.phase = electSelfPromoted
	p.addPlayerLocked(p.id)
	p.queueLocked(&protocol.Command{Command: protocol.TagIAmHost, ClientID: p.id})
	p.view.Status("you are the host")
	p.renderButtonsLocked()
}

// onHostIdentifyLocked answers a host query. Only the host replies,
// and it replies to every ask, even from peers not yet in its roster.
func (p *Peer) onHostIdentifyLocked() {
	if p.role != RoleHost {
		return
	}
	p.queueLocked(&protocol.Command{Command: protocol.TagIAmHost, ClientID: p.id})
}

// onHostAnnouncedLocked records the announced host. Cancelling the
// election timeout and recording hostID happen under one lock hold so
// a concurrent timeout cannot still self-promote.
func (p *Peer) onHostAnnouncedLocked(hostID string) {
	if hostID == "" {
		return
	}

	stopTimer(&p.electionTimer)
	if p.role == RoleHost && hostID != p.id {
		// Split brain: another peer promoted itself inside our window.
		logger.LogError("second host %s announced while hosting as %s", hostID, p.id)
	}
	p.hostID = hostID

	if p.phase == electSeeking {
		p.phase = electJoining
		p.view.Status("joining the game...")
		p.queueLocked(&protocol.Command{Command: protocol.TagJoin, ClientID: p.id})
	}
}

// onJoinedLocked handles the host's acknowledgment. It is delivered to
// everyone but addressed to one identity; everyone else ignores it.
func (p *Peer) onJoinedLocked(clientID string) {
	if clientID != p.id {
		return
	}

	stopTimer(&p.retryTimer)
	p.phase = electJoined
	p.view.Status("joined, waiting for the game to start")
}

// onHoldLocked handles a "come back later" reply. The join request is
// retried on a fixed period until an acknowledgment names this peer.
func (p *Peer) onHoldLocked(clientID string) {
	if clientID != p.id || p.phase == electJoined {
		return
	}

	p.view.Status("game in progress, waiting to join...")
	p.scheduleJoinRetryLocked()
}

func (p *Peer) scheduleJoinRetryLocked() {
	if p.retryTimer != nil {
		return
	}
	p.retryTimer = p.clock.AfterFunc(p.cfg.JoinRetryDuration(), func() {
		p.run(func() { p.onJoinRetryLocked() })
	})
}

func (p *Peer) onJoinRetryLocked() {
	p.retryTimer = nil
	if p.phase == electJoined {
		return
	}
	p.queueLocked(&protocol.Command{Command: protocol.TagJoin, ClientID: p.id})
	p.scheduleJoinRetryLocked()
}
