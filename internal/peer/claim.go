package peer

import "github.com/tambolist/tambola/internal/protocol"

// Claim arbitration. Any peer may claim with its card attached; only
// the host verifies. The verdict is broadcast after a randomized
// pacing delay so the reveal doesn't feel instant; the delay timer
// never blocks message handling.

// CheckClaim reports whether a 25-number card, read as a 5x5 grid in
// row-major order, has at least one row or column whose five numbers
// were all called. Diagonals do not count.
func CheckClaim(card []int, called []int) bool {
	if len(card) != CardSize {
		return false
	}

	calledSet := make(map[int]struct{}, len(called))
	for _, n := range called {
		calledSet[n] = struct{}{}
	}

	for i := 0; i < cardEdge; i++ {
		row, col := true, true
		for j := 0; j < cardEdge; j++ {
			if _, ok := calledSet[card[i*cardEdge+j]]; !ok {
				row = false
			}
			if _, ok := calledSet[card[j*cardEdge+i]]; !ok {
				col = false
			}
		}
		if row || col {
			return true
		}
	}
	return false
}

// onClaimLocked is the host's intake. A claim from an already
// disqualified peer is dropped without any broadcast or draw-loop
// change. Otherwise the draw loop pauses, the room is told a check is
// underway, and the verdict is scheduled.
func (p *Peer) onClaimLocked(claimer string, card []int) {
	if p.role != RoleHost || p.status != StatusPlaying || claimer == "" {
		return
	}
	if _, out := p.disqualified[claimer]; out {
		return
	}
	if p.verdictTimer != nil {
		// One arbitration at a time. A claim landing while a verdict
		// is pending is dropped; the claimer can re-claim afterwards.
		return
	}

	stopTimer(&p.drawTimer)
	p.queueLocked(&protocol.Command{Command: protocol.TagClaimMade, Claimer: claimer})

	valid := CheckClaim(card, p.called)
	min, max := p.cfg.VerdictWindow(valid)
	p.verdictTimer = p.clock.AfterFunc(p.rng.Between(min, max), func() {
		p.run(func() { p.onVerdictLocked(claimer, valid) })
	})
}

// onVerdictLocked announces the outcome. Valid ends the game via the
// claimvalid broadcast; invalid disqualifies the claimer and resumes
// the draw loop directly, because the host cannot depend on its own
// loopback for that.
func (p *Peer) onVerdictLocked(claimer string, valid bool) {
	p.verdictTimer = nil
	if p.role != RoleHost || p.status != StatusPlaying {
		return
	}

	if valid {
		p.queueLocked(&protocol.Command{Command: protocol.TagClaimValid, Claimer: claimer})
		return
	}

	p.disqualified[claimer] = struct{}{}
	p.queueLocked(&protocol.Command{Command: protocol.TagClaimInvalid, Claimer: claimer})
	p.scheduleDrawLocked()
}

// onClaimMadeLocked shows the room that a claim is being checked.
func (p *Peer) onClaimMadeLocked(claimer string) {
	if claimer == "" {
		return
	}
	p.view.Status("checking claim by " + claimer + "...")
}

// onClaimValidLocked finishes the game on every peer.
func (p *Peer) onClaimValidLocked(claimer string) {
	if claimer == "" || p.status != StatusPlaying {
		return
	}

	stopTimer(&p.drawTimer)
	p.status = StatusFinished
	p.winner = claimer
	p.view.Status(claimer + " wins!")
	p.renderButtonsLocked()
}

// onClaimInvalidLocked mirrors a disqualification. The set add is
// idempotent, so a redelivered broadcast changes nothing.
func (p *Peer) onClaimInvalidLocked(claimer string) {
	if claimer == "" {
		return
	}

	p.disqualified[claimer] = struct{}{}
	p.view.Status("claim by " + claimer + " rejected")
	p.renderButtonsLocked()
}
