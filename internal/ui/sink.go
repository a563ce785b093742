package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Tea messages pushed by the engine.

type statusMsg struct{ text string }

type playersMsg struct{ ids []string }

type calledMsg struct {
	history []int
	next    int
}

type cardMsg struct {
	numbers []int
	called  []int
}

type buttonsMsg struct{ start, reset, claim bool }

// Sink adapts the engine's presenter interface to a bubbletea
// program. Renders arrive from the peer's event loop (bus and timer
// goroutines) and are forwarded as tea messages; anything pushed
// before Bind is buffered.
type Sink struct {
	mu     sync.Mutex
	prog   *tea.Program
	queued []tea.Msg
}

// NewSink returns an unbound sink.
func NewSink() *Sink {
	return &Sink{}
}

// Bind attaches the running program and flushes the buffer.
func (s *Sink) Bind(p *tea.Program) {
	s.mu.Lock()
	s.prog = p
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	for _, msg := range queued {
		p.Send(msg)
	}
}

func (s *Sink) push(msg tea.Msg) {
	s.mu.Lock()
	prog := s.prog
	if prog == nil {
		s.queued = append(s.queued, msg)
	}
	s.mu.Unlock()

	if prog != nil {
		prog.Send(msg)
	}
}

func (s *Sink) Status(text string) { s.push(statusMsg{text: text}) }

func (s *Sink) Players(ids []string) { s.push(playersMsg{ids: ids}) }

func (s *Sink) Called(history []int, next int) {
	s.push(calledMsg{history: history, next: next})
}

func (s *Sink) Card(numbers []int, called []int) {
	s.push(cardMsg{numbers: numbers, called: called})
}

func (s *Sink) Buttons(start, reset, claim bool) {
	s.push(buttonsMsg{start: start, reset: reset, claim: claim})
}
