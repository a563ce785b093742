package peer

// Presenter is the narrow sink the engine renders through. The UI
// collaborator implements it; the engine never owns UI objects.
// Methods are invoked while the peer holds its own lock, so an
// implementation must not call back into the peer synchronously.
type Presenter interface {
	// Status replaces the one-line status text.
	Status(text string)
	// Players renders the roster in join order.
	Players(ids []string)
	// Called renders the call history and the most recent number.
	// next is 0 before the first call of a game.
	Called(history []int, next int)
	// Card renders this peer's card with called numbers marked.
	Card(numbers []int, called []int)
	// Buttons sets the enabled state of the three game actions.
	Buttons(start, reset, claim bool)
}

// NopPresenter discards every render. Default when no UI is attached.
type NopPresenter struct{}

func (NopPresenter) Status(string)        {}
func (NopPresenter) Players([]string)     {}
func (NopPresenter) Called([]int, int)    {}
func (NopPresenter) Card([]int, []int)    {}
func (NopPresenter) Buttons(_, _, _ bool) {}
