package reveal

// Event is a notification emitted by the controller. Consumers feed these
// into a single reducer (the TUI update loop) instead of relying on
// callback ordering.
type Event interface {
	revealEvent()
}

// StepShown is emitted each time a display item becomes visible.
type StepShown struct {
	Key   string
	Index int
}

// AllShown is emitted once per completion, when every display item has
// been revealed and its renderer has finished. It triggers the start of
// final-answer rendering. If new items arrive afterwards the reveal
// reopens and the event fires again at the new end.
type AllShown struct{}

func (StepShown) revealEvent() {}
func (AllShown) revealEvent()  {}

// Notify receives controller events.
type Notify func(Event)
