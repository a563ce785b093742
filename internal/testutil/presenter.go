package testutil

// SimplePresenter records the last render of each slot. It is not
// safe for concurrent use; tests drive the peer from one goroutine
// via the fake clock and memory bus.
type SimplePresenter struct {
	StatusText   string
	PlayerList   []string
	CalledList   []int
	NextNumber   int
	CardNumbers  []int
	StartEnabled bool
	ResetEnabled bool
	ClaimEnabled bool
}

func (s *SimplePresenter) Status(text string) { s.StatusText = text }

func (s *SimplePresenter) Players(ids []string) { s.PlayerList = ids }

func (s *SimplePresenter) Called(history []int, next int) {
	s.CalledList = history
	s.NextNumber = next
}

func (s *SimplePresenter) Card(numbers []int, called []int) { s.CardNumbers = numbers }

func (s *SimplePresenter) Buttons(start, reset, claim bool) {
	s.StartEnabled = start
	s.ResetEnabled = reset
	s.ClaimEnabled = claim
}
