package peer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tambolist/tambola/internal/bus"
	"github.com/tambolist/tambola/internal/config"
	"github.com/tambolist/tambola/internal/draw"
	"github.com/tambolist/tambola/internal/peer"
	"github.com/tambolist/tambola/internal/protocol"
	"github.com/tambolist/tambola/internal/testutil"
)

// testPeer bundles one peer with its controllable clock and presenter.
type testPeer struct {
	p     *peer.Peer
	clock *testutil.FakeClock
	view  *testutil.SimplePresenter
}

// newTestPeer attaches a peer to the room. Each peer gets its own
// clock so tests can skew peers against each other, and its own rng
// seed so no two peers deal the same card.
func newTestPeer(t *testing.T, room *bus.MemoryRoom, id string, seed uint64) *testPeer {
	t.Helper()

	clock := testutil.NewFakeClock()
	view := &testutil.SimplePresenter{}
	p := peer.New(peer.Options{
		ID:    id,
		Bus:   room.Join(),
		View:  view,
		Clock: clock,
		Rand:  draw.NewSeeded(seed),
		Game:  config.Default().Game,
	})
	return &testPeer{p: p, clock: clock, view: view}
}

// promoteToHost runs a peer's election to completion with nobody else
// answering, which self-promotes it.
func promoteToHost(t *testing.T, tp *testPeer) {
	t.Helper()

	tp.p.Start()
	tp.clock.Advance(8 * time.Second)
	require.Equal(t, peer.RoleHost, tp.p.Role())
}

// inject broadcasts a raw command into the room from an anonymous
// member, the way a forged or duplicated message would arrive.
func inject(t *testing.T, room *bus.MemoryRoom, cmd *protocol.Command) {
	t.Helper()

	m := room.Join()
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Send(cmd))
}
