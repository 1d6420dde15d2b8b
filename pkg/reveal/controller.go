package reveal

import (
	"sync"
	"time"

	"github.com/fathomchat/fathom/pkg/display"
	"github.com/fathomchat/fathom/pkg/logger"
)

// Phase is the controller's user-visible state.
type Phase string

const (
	PhaseStreamingCollapsed Phase = "streaming-collapsed"
	PhaseStreamingExpanded  Phase = "streaming-expanded"
	PhaseCompleteCollapsed  Phase = "complete-collapsed"
	PhaseCompleteExpanded   Phase = "complete-expanded"
)

// Durations holds the minimum on-screen duration per step kind.
type Durations struct {
	// Step applies to generic and searching items.
	Step time.Duration

	// Reading applies to the reading step of a split search.
	Reading time.Duration
}

// DefaultDurations returns the stock pacing.
func DefaultDurations() Durations {
	return Durations{Step: time.Second, Reading: time.Second}
}

// Controller decides which display items are visible while a response
// streams in. A newly completed step becomes visible only after the
// previous step has been on screen for its minimum duration, so
// near-instant tool calls do not flicker past. Advancement is driven by
// per-item renderer completion signals, never by polling.
type Controller struct {
	mu        sync.Mutex
	clock     Clock
	notify    Notify
	durations Durations
	log       *logger.Logger

	items      []display.Item
	done       map[string]bool
	revealed   int
	lastReveal time.Time
	timer      Timer
	expanded   bool
	allShown   bool
	closed     bool
}

// NewController creates a controller. notify may be nil.
func NewController(clock Clock, durations Durations, notify Notify) *Controller {
	return &Controller{
		clock:     clock,
		notify:    notify,
		durations: durations,
		done:      make(map[string]bool),
		log:       logger.WithComponent("reveal"),
	}
}

// SetItems replaces the current display item list, usually after a new
// snapshot. A list shorter than what was already revealed means the
// owning conversation turn was rebuilt, so the controller starts over.
func (c *Controller) SetItems(items []display.Item) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if len(items) < c.revealed {
		c.log.Debug("display items shrank, restarting reveal",
			"revealed", c.revealed, "items", len(items))
		c.resetLocked()
	}
	c.items = items

	// New items arriving after a momentary all-shown state reopen the
	// reveal; the completion notification must fire again once the new
	// tail has been revealed.
	if c.allShown && len(items) > c.revealed {
		c.allShown = false
	}
	events := c.advanceLocked()
	c.mu.Unlock()

	c.emit(events)
}

// ItemRendered is the signal from an item's renderer that it has finished
// rendering. The visible index only advances on this signal.
func (c *Controller) ItemRendered(key string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.done[key] = true
	events := c.advanceLocked()
	c.mu.Unlock()

	c.emit(events)
}

// SetExpanded sets the user's expand/collapse choice. Re-applying the
// same value has no effect beyond the visibility bit.
func (c *Controller) SetExpanded(expanded bool) {
	c.mu.Lock()
	c.expanded = expanded
	c.mu.Unlock()
}

// ToggleExpanded flips the expand/collapse choice.
func (c *Controller) ToggleExpanded() {
	c.mu.Lock()
	c.expanded = !c.expanded
	c.mu.Unlock()
}

// Expanded returns the user's current choice.
func (c *Controller) Expanded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded
}

// Phase returns the controller's current state. The expand/collapse
// choice made while streaming is preserved on completion.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.allShown && c.expanded:
		return PhaseCompleteExpanded
	case c.allShown:
		return PhaseCompleteCollapsed
	case c.expanded:
		return PhaseStreamingExpanded
	default:
		return PhaseStreamingCollapsed
	}
}

// Visible returns the display items currently on screen. With zero items
// nothing is rendered. While streaming collapsed, only the most recently
// revealed item shows; expanded or completed views show every revealed
// item.
func (c *Controller) Visible() []display.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.revealed == 0 {
		return nil
	}
	if c.expanded || c.allShown {
		items := make([]display.Item, c.revealed)
		copy(items, c.items[:c.revealed])
		return items
	}
	return []display.Item{c.items[c.revealed-1]}
}

// AllShownOnce reports whether the one-time all-displayed notification has
// fired.
func (c *Controller) AllShownOnce() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allShown
}

// Reset discards reveal progress and pending timers, keeping the user's
// expand/collapse choice.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.items = nil
	c.mu.Unlock()
}

// Close cancels pending timers and stops the controller. Timer callbacks
// must never fire against a torn-down conversation turn.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()
}

func (c *Controller) resetLocked() {
	c.stopTimerLocked()
	c.done = make(map[string]bool)
	c.revealed = 0
	c.lastReveal = time.Time{}
	c.allShown = false
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// advanceLocked moves the visible index as far as the completion signals
// and minimum durations allow, returning the events to emit. When blocked
// only by time, a timer re-runs the advance once the remainder elapses.
func (c *Controller) advanceLocked() []Event {
	var events []Event

	if len(c.items) == 0 {
		return nil
	}

	// The first item appears as soon as it exists.
	if c.revealed == 0 {
		c.revealed = 1
		c.lastReveal = c.clock.Now()
		events = append(events, StepShown{Key: c.items[0].Key, Index: 0})
	}

	for {
		current := c.items[c.revealed-1]
		if !c.done[current.Key] {
			return events
		}

		if wait := c.remainingLocked(current); wait > 0 {
			c.armLocked(wait)
			return events
		}

		if c.revealed == len(c.items) {
			if !c.allShown {
				c.allShown = true
				events = append(events, AllShown{})
			}
			return events
		}

		c.revealed++
		c.lastReveal = c.clock.Now()
		next := c.items[c.revealed-1]
		events = append(events, StepShown{Key: next.Key, Index: c.revealed - 1})
	}
}

// remainingLocked returns how much longer the item must stay on screen.
func (c *Controller) remainingLocked(item display.Item) time.Duration {
	min := c.durations.Step
	if item.Kind == display.ItemReading {
		min = c.durations.Reading
	}
	return min - c.clock.Now().Sub(c.lastReveal)
}

func (c *Controller) armLocked(wait time.Duration) {
	c.stopTimerLocked()
	c.timer = c.clock.AfterFunc(wait, c.onTimer)
}

func (c *Controller) onTimer() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	events := c.advanceLocked()
	c.mu.Unlock()

	c.emit(events)
}

func (c *Controller) emit(events []Event) {
	if c.notify == nil {
		return
	}
	for _, ev := range events {
		c.notify(ev)
	}
}
