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

func TestCheckClaim(t *testing.T) {
	t.Parallel()

	// Cards read as 5x5 grids in row-major order.
	base := make([]int, 25)
	for i := range base {
		base[i] = i + 1 // 1..25
	}

	tests := []struct {
		name   string
		card   []int
		called []int
		want   bool
	}{
		{
			name:   "first row fully called",
			card:   base,
			called: []int{1, 2, 3, 4, 5},
			want:   true,
		},
		{
			name: "first column fully called, no full row",
			card: base,
			// positions 0, 5, 10, 15, 20 hold 1, 6, 11, 16, 21
			called: []int{1, 6, 11, 16, 21},
			want:   true,
		},
		{
			name:   "four of a row is not enough",
			card:   base,
			called: []int{1, 2, 3, 4},
			want:   false,
		},
		{
			name:   "scattered calls match nothing",
			card:   base,
			called: []int{1, 7, 13, 19, 25}, // the diagonal does not count
			want:   false,
		},
		{
			name:   "nothing called",
			card:   base,
			called: nil,
			want:   false,
		},
		{
			name:   "wrong card size is never valid",
			card:   []int{1, 2, 3},
			called: []int{1, 2, 3},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, peer.CheckClaim(tt.card, tt.called))
		})
	}
}

// rowCard builds a 25-number card whose first row is exactly the given
// five called numbers and whose remaining cells are uncalled.
func rowCard(t *testing.T, called []int) []int {
	t.Helper()
	require.Len(t, called, 5)

	calledSet := make(map[int]bool, len(called))
	for _, n := range called {
		calledSet[n] = true
	}

	card := append([]int(nil), called...)
	for n := peer.NumberMin; n <= peer.NumberMax && len(card) < peer.CardSize; n++ {
		if !calledSet[n] {
			card = append(card, n)
		}
	}
	require.Len(t, card, peer.CardSize)
	return card
}

// uncalledCard builds a card that shares no number with called.
func uncalledCard(t *testing.T, called []int) []int {
	t.Helper()

	calledSet := make(map[int]bool, len(called))
	for _, n := range called {
		calledSet[n] = true
	}

	var card []int
	for n := peer.NumberMin; n <= peer.NumberMax && len(card) < peer.CardSize; n++ {
		if !calledSet[n] {
			card = append(card, n)
		}
	}
	require.Len(t, card, peer.CardSize)
	return card
}

func TestClaim_ValidEndsTheGame(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host, player := playingPair(t, room)

	for range 5 {
		host.clock.Advance(5 * time.Second)
	}
	called := host.p.CalledSnapshot()
	require.Len(t, called, 5)
	rec.Reset()

	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "challenger",
		GameCard: rowCard(t, called),
	})

	// The room is told a check is underway and the draw loop pauses.
	made := rec.ByTag(protocol.TagClaimMade)
	require.Len(t, made, 1)
	assert.Equal(t, "challenger", made[0].Claimer)

	// The verdict lands after the pacing delay, with no draws in
	// between.
	host.clock.Advance(8 * time.Second)
	assert.Zero(t, rec.Count(protocol.TagCall))

	valid := rec.ByTag(protocol.TagClaimValid)
	require.Len(t, valid, 1)
	assert.Equal(t, "challenger", valid[0].Claimer)

	for _, tp := range []*testPeer{host, player} {
		assert.Equal(t, peer.StatusFinished, tp.p.Status())
		assert.Equal(t, "challenger", tp.p.Winner())
	}
}

func TestClaim_InvalidDisqualifiesAndResumesDraws(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host, player := playingPair(t, room)

	for range 5 {
		host.clock.Advance(5 * time.Second)
	}
	called := host.p.CalledSnapshot()
	rec.Reset()

	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "chancer",
		GameCard: uncalledCard(t, called),
	})
	require.Equal(t, 1, rec.Count(protocol.TagClaimMade))

	host.clock.Advance(6 * time.Second)

	invalid := rec.ByTag(protocol.TagClaimInvalid)
	require.Len(t, invalid, 1)
	assert.Equal(t, "chancer", invalid[0].Claimer)

	assert.True(t, host.p.IsDisqualified("chancer"))
	assert.True(t, player.p.IsDisqualified("chancer"), "mirror follows the broadcast")
	assert.Equal(t, peer.StatusPlaying, host.p.Status())

	// The draw loop picks back up.
	before := len(host.p.CalledSnapshot())
	host.clock.Advance(5 * time.Second)
	assert.Equal(t, before+1, len(host.p.CalledSnapshot()))
}

func TestClaim_DisqualifiedClaimerIsIgnored(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host, _ := playingPair(t, room)

	for range 5 {
		host.clock.Advance(5 * time.Second)
	}
	called := host.p.CalledSnapshot()

	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "chancer",
		GameCard: uncalledCard(t, called),
	})
	host.clock.Advance(6 * time.Second)
	require.True(t, host.p.IsDisqualified("chancer"))
	rec.Reset()

	// A second claim, even a winning one, is dropped without any
	// broadcast, and the draw loop keeps its rhythm.
	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "chancer",
		GameCard: rowCard(t, host.p.CalledSnapshot()[:5]),
	})

	assert.Zero(t, rec.Count(protocol.TagClaimMade))
	assert.Zero(t, rec.Count(protocol.TagClaimValid))
	assert.Zero(t, rec.Count(protocol.TagClaimInvalid))

	host.clock.Advance(5 * time.Second)
	assert.Equal(t, 1, rec.Count(protocol.TagCall), "draw loop unaffected")
}

func TestClaim_SecondClaimWhileVerdictPendingIgnored(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	host, _ := playingPair(t, room)

	for range 5 {
		host.clock.Advance(5 * time.Second)
	}
	called := host.p.CalledSnapshot()
	rec.Reset()

	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "chancer",
		GameCard: uncalledCard(t, called),
	})
	require.Equal(t, 1, rec.Count(protocol.TagClaimMade))

	// A second claim lands while the first verdict is still pending.
	// Only one arbitration runs at a time, so it is dropped.
	inject(t, room, &protocol.Command{
		Command:  protocol.TagClaim,
		Claimer:  "challenger",
		GameCard: rowCard(t, called),
	})
	assert.Equal(t, 1, rec.Count(protocol.TagClaimMade))

	host.clock.Advance(6 * time.Second)

	invalid := rec.ByTag(protocol.TagClaimInvalid)
	require.Len(t, invalid, 1)
	assert.Equal(t, "chancer", invalid[0].Claimer)
	assert.Zero(t, rec.Count(protocol.TagClaimValid))
	assert.False(t, host.p.IsDisqualified("challenger"))
	assert.Equal(t, peer.StatusPlaying, host.p.Status())

	// One verdict, one resumed draw loop.
	before := len(host.p.CalledSnapshot())
	host.clock.Advance(5 * time.Second)
	assert.Equal(t, before+1, len(host.p.CalledSnapshot()))
}

func TestClaim_UIClaimCarriesOwnCard(t *testing.T) {
	t.Parallel()

	room := bus.NewMemoryRoom()
	rec := testutil.NewRecorder(room)
	_, player := playingPair(t, room)
	rec.Reset()

	player.p.ClaimWin()

	claims := rec.ByTag(protocol.TagClaim)
	require.Len(t, claims, 1)
	assert.Equal(t, "player", claims[0].Claimer)
	assert.Equal(t, player.p.CardSnapshot(), claims[0].GameCard)
}
