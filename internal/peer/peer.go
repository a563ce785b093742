// Package peer implements the peer-coordination and game-lifecycle
// engine: host election among anonymous peers, the host-authoritative
// roster, the joining/playing/finished state machine, the draw loop,
// and claim arbitration. Everything runs over a best-effort broadcast
// bus; there is no central server and no message authentication.
package peer

import (
	"sync"

	"github.com/tambolist/tambola/internal/bus"
	"github.com/tambolist/tambola/internal/config"
	"github.com/tambolist/tambola/internal/draw"
	"github.com/tambolist/tambola/internal/identity"
	"github.com/tambolist/tambola/internal/logger"
	"github.com/tambolist/tambola/internal/protocol"
)

// Role is this peer's part in the room.
type Role int

const (
	RolePlayer Role = iota
	RoleHost
)

// GameStatus is the lifecycle state of the current game.
type GameStatus int

const (
	StatusJoining GameStatus = iota
	StatusPlaying
	StatusFinished
)

// electionPhase tracks the host-election coordinator.
type electionPhase int

const (
	electSeeking electionPhase = iota
	electJoining
	electJoined
	electSelfPromoted
)

// Game board constants. A card is a 5x5 grid drawn from [1, 90].
const (
	NumberMin = 1
	NumberMax = 90
	CardSize  = 25
	cardEdge  = 5
)

// Options configures a peer. Bus is required; every other field has a
// working default.
type Options struct {
	ID    string
	Bus   bus.Bus
	View  Presenter
	Clock Clock
	Rand  *draw.Generator
	Game  config.GameConfig
}

// Peer is one running participant. All state is peer-local; the only
// way peers converge is through bus broadcasts. A single mutex
// serializes bus deliveries, timer callbacks, and UI actions into the
// cooperative event loop the protocol assumes.
type Peer struct {
	id    string
	bus   bus.Bus
	view  Presenter
	clock Clock
	rng   *draw.Generator
	cfg   config.GameConfig

	mu sync.Mutex

	// Party state: who hosts, who plays. The roster is authoritative
	// on the host and a replaced-wholesale mirror everywhere else.
	hostID  string
	role    Role
	players []string
	phase   electionPhase

	// Game state. On a non-host peer, called and disqualified mirror
	// the host's copies and are only ever updated from broadcasts.
	status       GameStatus
	card         []int
	called       []int
	disqualified map[string]struct{}
	winner       string

	// Pending timers. Each is cancelled on the transition that
	// obsoletes its precondition; see the handlers.
	electionTimer Timer
	readyTimer    Timer
	retryTimer    Timer
	drawTimer     Timer
	verdictTimer  Timer

	// Outbound commands queued by handlers and flushed after the lock
	// is released, so a loopback delivery can never deadlock.
	outbox []*protocol.Command

	closed bool
}

// New creates a peer. It does not touch the bus until Start.
func New(opts Options) *Peer {
	if opts.ID == "" {
		opts.ID = identity.New()
	}
	if opts.View == nil {
		opts.View = NopPresenter{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Rand == nil {
		opts.Rand = draw.New()
	}
	if opts.Game.ElectionTimeoutMax == 0 {
		opts.Game = config.Default().Game
	}

	return &Peer{
		id:           opts.ID,
		bus:          opts.Bus,
		view:         opts.View,
		clock:        opts.Clock,
		rng:          opts.Rand,
		cfg:          opts.Game,
		disqualified: make(map[string]struct{}),
	}
}

// ID returns this peer's identity token.
func (p *Peer) ID() string { return p.id }

// Start subscribes to the bus, asks the room for its host, and arms
// the election timeout and the lobby poll.
func (p *Peer) Start() {
	p.bus.OnMessage(p.handleMessage)
	p.run(func() {
		p.startElectionLocked()
		p.startReadyPollLocked()
	})
}

// Close broadcasts a best-effort leave notice, cancels every pending
// timer, and releases the bus. No acknowledgment is expected.
func (p *Peer) Close() error {
	p.run(func() {
		if p.closed {
			return
		}
		p.closed = true
		p.queueLocked(&protocol.Command{Command: protocol.TagLeave, ClientID: p.id})
		stopTimer(&p.electionTimer)
		stopTimer(&p.readyTimer)
		stopTimer(&p.retryTimer)
		stopTimer(&p.drawTimer)
		stopTimer(&p.verdictTimer)
	})
	return p.bus.Close()
}

// handleMessage is the bus delivery entry point.
func (p *Peer) handleMessage(cmd *protocol.Command) {
	p.run(func() { p.dispatchLocked(cmd) })
}

// run executes fn inside the event loop and then flushes any queued
// broadcasts. Loopback deliveries from the flush re-enter through
// handleMessage after the lock is gone.
func (p *Peer) run(fn func()) {
	p.mu.Lock()
	fn()
	out := p.outbox
	p.outbox = nil
	p.mu.Unlock()

	for _, cmd := range out {
		if err := p.bus.Send(cmd); err != nil {
			logger.LogError("broadcast %s failed: %v", cmd.Command, err)
		}
	}
}

// queueLocked stages an outbound broadcast.
func (p *Peer) queueLocked(cmd *protocol.Command) {
	p.outbox = append(p.outbox, cmd)
}

// --- Snapshot accessors ---

// Role returns this peer's current role.
func (p *Peer) Role() Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.role
}

// HostID returns the identity of the observed host, or "".
func (p *Peer) HostID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hostID
}

// Status returns the game lifecycle state.
func (p *Peer) Status() GameStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// PlayersSnapshot returns a copy of the roster in join order.
func (p *Peer) PlayersSnapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.players...)
}

// CalledSnapshot returns a copy of the call history.
func (p *Peer) CalledSnapshot() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.called...)
}

// CardSnapshot returns a copy of this peer's card.
func (p *Peer) CardSnapshot() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.card...)
}

// IsDisqualified reports whether id has had a claim rejected this game.
func (p *Peer) IsDisqualified(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.disqualified[id]
	return ok
}

// Winner returns the announced winner, or "".
func (p *Peer) Winner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.winner
}

// --- UI actions ---

// StartGame is the host's start button. Ignored on non-hosts and
// outside the lobby.
func (p *Peer) StartGame() {
	p.run(func() {
		if p.role != RoleHost || p.status != StatusJoining {
			return
		}
		p.queueLocked(&protocol.Command{Command: protocol.TagStart})
	})
}

// ResetGame is the host's reset button, available once a game has
// finished.
func (p *Peer) ResetGame() {
	p.run(func() {
		if p.role != RoleHost || p.status != StatusFinished {
			return
		}
		p.queueLocked(&protocol.Command{Command: protocol.TagReset})
	})
}

// ClaimWin broadcasts this peer's claim with its card attached. Any
// peer may claim; the host arbitrates.
func (p *Peer) ClaimWin() {
	p.run(func() {
		if p.status != StatusPlaying {
			return
		}
		p.queueLocked(&protocol.Command{
			Command:  protocol.TagClaim,
			Claimer:  p.id,
			GameCard: append([]int(nil), p.card...),
		})
	})
}

// --- Shared render helpers (callers hold the lock) ---

func (p *Peer) renderButtonsLocked() {
	start := p.role == RoleHost && p.status == StatusJoining && len(p.players) > 1
	reset := p.role == RoleHost && p.status == StatusFinished
	_, selfOut := p.disqualified[p.id]
	claim := p.status == StatusPlaying && !selfOut
	p.view.Buttons(start, reset, claim)
}

func (p *Peer) renderCalledLocked() {
	next := 0
	if len(p.called) > 0 {
		next = p.called[len(p.called)-1]
	}
	p.view.Called(append([]int(nil), p.called...), next)
	p.view.Card(append([]int(nil), p.card...), append([]int(nil), p.called...))
}

func (p *Peer) renderPlayersLocked() {
	p.view.Players(append([]string(nil), p.players...))
}
