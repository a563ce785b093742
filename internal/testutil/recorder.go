package testutil

import (
	"sync"

	"github.com/tambolist/tambola/internal/bus"
	"github.com/tambolist/tambola/internal/protocol"
)

// Recorder taps a memory room and records every broadcast that crosses
// it, whoever the sender was. Tests attach one next to the peers under
// test and assert on the wire traffic.
type Recorder struct {
	mu   sync.Mutex
	seen []*protocol.Command
}

// NewRecorder joins room and starts recording.
func NewRecorder(room *bus.MemoryRoom) *Recorder {
	r := &Recorder{}
	member := room.Join()
	member.OnMessage(func(cmd *protocol.Command) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.seen = append(r.seen, cmd)
	})
	return r
}

// All returns every recorded command in delivery order.
func (r *Recorder) All() []*protocol.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*protocol.Command(nil), r.seen...)
}

// ByTag returns the recorded commands with the given tag.
func (r *Recorder) ByTag(tag protocol.Tag) []*protocol.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*protocol.Command
	for _, cmd := range r.seen {
		if cmd.Command == tag {
			out = append(out, cmd)
		}
	}
	return out
}

// Count returns how many commands with the given tag were seen.
func (r *Recorder) Count(tag protocol.Tag) int {
	return len(r.ByTag(tag))
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}
