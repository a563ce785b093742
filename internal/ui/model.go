// Package ui renders one peer's view of the room in the terminal:
// status line, roster, call history, and the 5x5 card. It implements
// the engine's presenter sink; all game authority stays in the peer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tambolist/tambola/internal/peer"
)

type startedMsg struct{}

// Model is the terminal client state.
type Model struct {
	peer *peer.Peer
	room string

	status  string
	players []string
	called  []int
	next    int
	card    []int
	marked  map[int]bool

	canStart bool
	canReset bool
	canClaim bool

	spin     spinner.Model
	quitting bool
}

// NewModel creates the client view for a peer.
func NewModel(p *peer.Peer, room string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		peer:   p,
		room:   room,
		status: "connecting...",
		marked: make(map[int]bool),
		spin:   sp,
	}
}

// Init starts the peer once the program is running.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			m.peer.Start()
			return startedMsg{}
		},
	)
}

// Update handles key presses and engine renders.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			_ = m.peer.Close()
			return m, tea.Quit
		case "s":
			if m.canStart {
				m.peer.StartGame()
			}
		case "r":
			if m.canReset {
				m.peer.ResetGame()
			}
		case "c", "enter":
			if m.canClaim {
				m.peer.ClaimWin()
			}
		}

	case statusMsg:
		m.status = msg.text

	case playersMsg:
		m.players = msg.ids

	case calledMsg:
		m.called = msg.history
		m.next = msg.next

	case cardMsg:
		m.card = msg.numbers
		m.marked = make(map[int]bool, len(msg.called))
		for _, n := range msg.called {
			m.marked[n] = true
		}

	case buttonsMsg:
		m.canStart = msg.start
		m.canReset = msg.reset
		m.canClaim = msg.claim

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return "bye!\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("TAMBOLA"))
	b.WriteString(dimStyle.Render("  room: " + m.room))
	b.WriteString("\n")

	status := m.status
	if strings.HasPrefix(status, "checking claim") {
		status = m.spin.View() + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")

	left := boxStyle.Render(m.viewPlayers())
	right := boxStyle.Render(m.viewCalled())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if len(m.card) == peer.CardSize {
		b.WriteString(boxStyle.Render(m.viewCard()))
		b.WriteString("\n")
	}

	b.WriteString(m.viewKeys())
	return docStyle.Render(b.String())
}

func (m Model) viewPlayers() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("players (%d)\n", len(m.players)))
	if len(m.players) == 0 {
		b.WriteString(dimStyle.Render("nobody yet"))
		return b.String()
	}

	hostID := m.peer.HostID()
	for _, id := range m.players {
		label := shortID(id)
		switch id {
		case m.peer.ID():
			b.WriteString(selfStyle.Render(label + " (you)"))
		case hostID:
			b.WriteString(hostStyle.Render(label + " (host)"))
		default:
			b.WriteString(label)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewCalled() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("called (%d/90)\n", len(m.called)))
	if m.next > 0 {
		b.WriteString("next: " + nextStyle.Render(fmt.Sprintf("%d", m.next)) + "\n")
	}

	// Most recent calls first, capped to keep the box small.
	const show = 15
	start := 0
	if len(m.called) > show {
		start = len(m.called) - show
	}
	recent := m.called[start:]
	parts := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%d", recent[i]))
	}
	if len(parts) == 0 {
		b.WriteString(dimStyle.Render("no calls yet"))
	} else {
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String()
}

func (m Model) viewCard() string {
	rows := make([]string, 0, 5)
	for r := 0; r < 5; r++ {
		cells := make([]string, 0, 5)
		for c := 0; c < 5; c++ {
			n := m.card[r*5+c]
			cell := fmt.Sprintf("%d", n)
			if m.marked[n] {
				cells = append(cells, markedCellStyle.Render(cell))
			} else {
				cells = append(cells, cellStyle.Render(cell))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewKeys() string {
	key := func(label string, enabled bool) string {
		if enabled {
			return keyOnStyle.Render(label)
		}
		return keyOffStyle.Render(label)
	}
	return dimStyle.Render("  ") +
		key("[s]tart", m.canStart) + "  " +
		key("[r]eset", m.canReset) + "  " +
		key("[c]laim", m.canClaim) + "  " +
		keyOnStyle.Render("[q]uit")
}

// shortID trims an identity token for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
