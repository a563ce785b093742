package peer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tambolist/tambola/internal/bus"
	"github.com/tambolist/tambola/internal/peer"
	"github.com/tambolist/tambola/internal/protocol"
	"github.com/tambolist/tambola/internal/testutil"
)

func TestElection_SelfPromotion(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	solo := newTestPeer(t, room, "solo", 1)

	solo.p.Start()
	assert.Equal(t, 1, rec.Count(protocol.TagHostIdentify))
	assert.Equal(t, peer.RolePlayer, solo.p.Role())

	solo.clock.Advance(8 * time.Second)

	assert.Equal(t, peer.RoleHost, solo.p.Role())
	assert.Equal(t, "solo", solo.p.HostID())
	assert.Equal(t, []string{"solo"}, solo.p.PlayersSnapshot())

	announcements := rec.ByTag(protocol.TagIAmHost)
	require.Len(t, announcements, 1)
	assert.Equal(t, "solo", announcements[0].ClientID)
}

func TestElection_AnnouncementCancelsTimeout(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host := newTestPeer(t, room, "host", 1)
	promoteToHost(t, host)

	// The newcomer's hostidentify is answered immediately, so its own
	// timeout must never self-promote it.
	late := newTestPeer(t, room, "late", 2)
	late.p.Start()

	assert.Equal(t, "host", late.p.HostID())
	late.clock.Advance(10 * time.Second)

	assert.Equal(t, peer.RolePlayer, late.p.Role())
	for _, cmd := range rec.ByTag(protocol.TagIAmHost) {
		assert.Equal(t, "host", cmd.ClientID)
	}
}

func TestElection_SkippedWhenPeersAlreadyKnown(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	p := newTestPeer(t, room, "p", 1)
	p.p.Start()

	// A roster broadcast lands before the timeout: another host must
	// be active or imminent, so self-promotion is skipped.
	inject(t, room, &protocol.Command{
		Command: protocol.TagPlayers,
		Players: []string{"a", "b"},
	})

	p.clock.Advance(10 * time.Second)

	assert.Equal(t, peer.RolePlayer, p.p.Role())
	assert.Zero(t, rec.Count(protocol.TagIAmHost))
}

func TestElection_HostAnswersEveryIdentify(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host := newTestPeer(t, room, "host", 1)
	promoteToHost(t, host)
	rec.Reset()

	// Even a peer the host does not track gets an answer.
	inject(t, room, &protocol.Command{Command: protocol.TagHostIdentify})
	inject(t, room, &protocol.Command{Command: protocol.TagHostIdentify})

	assert.Equal(t, 2, rec.Count(protocol.TagIAmHost))
}
