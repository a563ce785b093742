package peer

import "github.com/tambolist/tambola/internal/protocol"

// Game lifecycle: Joining -> Playing -> Finished -> Joining. The host
// broadcasts the transitions; every peer, the host included, applies
// them when its own copy of the broadcast arrives, so one code path
// serves both roles.

// onStartLocked begins a game on every peer: the lobby poll stops,
// each peer deals itself a card, and the host arms the draw loop.
// Only the lobby can start a game; a start redelivered while playing
// or after a finish changes nothing.
func (p *Peer) onStartLocked() {
	if p.status != StatusJoining {
		return
	}

	stopTimer(&p.readyTimer)
	p.status = StatusPlaying
	p.card = p.rng.Unique(NumberMin, NumberMax, CardSize)
	p.winner = ""

	p.view.Status("game on!")
	p.renderCalledLocked()
	p.renderButtonsLocked()

	if p.role == RoleHost {
		p.scheduleDrawLocked()
	}
}

// scheduleDrawLocked arms the next tick of the host's draw loop.
func (p *Peer) scheduleDrawLocked() {
	if p.drawTimer != nil {
		return
	}
	p.drawTimer = p.clock.AfterFunc(p.cfg.DrawIntervalDuration(), func() {
		p.run(func() { p.onDrawTickLocked() })
	})
}

// onDrawTickLocked draws one number, appends it to the authoritative
// history, and broadcasts it with the full history attached. The loop
// halts once the whole range has been called; no winner is declared
// in that case.
func (p *Peer) onDrawTickLocked() {
	p.drawTimer = nil
	if p.role != RoleHost || p.status != StatusPlaying {
		return
	}
	if len(p.called) >= NumberMax-NumberMin+1 {
		return
	}

	n := p.rng.Excluding(NumberMin, NumberMax, p.called)
	p.called = append(p.called, n)
	p.queueLocked(&protocol.Command{
		Command:       protocol.TagCall,
		Number:        n,
		CalledNumbers: append([]int(nil), p.called...),
	})
	p.renderCalledLocked()
	p.scheduleDrawLocked()
}

// onCallLocked applies one call broadcast. The host already appended
// when it drew; a non-host appends the number if it is novel. The
// transport redelivers at-least-once, so a value-level duplicate check
// keeps the mirror from double-appending.
func (p *Peer) onCallLocked(number int) {
	if number < NumberMin || number > NumberMax {
		return
	}

	if p.role != RoleHost {
		known := false
		for _, c := range p.called {
			if c == number {
				known = true
				break
			}
		}
		if !known {
			p.called = append(p.called, number)
		}
	}

	p.renderCalledLocked()
}

// onResetLocked returns every peer to the lobby. The card, history,
// disqualifications, winner, and game timers go; the roster stays,
// since it outlives games within a session.
func (p *Peer) onResetLocked() {
	stopTimer(&p.drawTimer)
	stopTimer(&p.verdictTimer)

	p.status = StatusJoining
	p.card = nil
	p.called = nil
	p.disqualified = make(map[string]struct{})
	p.winner = ""

	p.view.Status("waiting for players...")
	p.renderCalledLocked()
	p.renderButtonsLocked()
	p.startReadyPollLocked()
}

// startReadyPollLocked arms the lobby poll. It ticks while the game
// is not running; on a host with company it enables the start button
// and stops itself, otherwise it keeps showing the waiting state.
func (p *Peer) startReadyPollLocked() {
	if p.readyTimer != nil {
		return
	}
	p.readyTimer = p.clock.AfterFunc(p.cfg.ReadyPollDuration(), func() {
		p.run(func() { p.onReadyTickLocked() })
	})
}

func (p *Peer) onReadyTickLocked() {
	p.readyTimer = nil
	if p.status == StatusPlaying {
		return
	}

	if p.role == RoleHost && len(p.players) > 1 {
		p.view.Status("ready to start")
		p.renderButtonsLocked()
		return
	}

	p.view.Status("waiting for players...")
	p.startReadyPollLocked()
}
