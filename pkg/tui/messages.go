package tui

import (
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/reveal"
)

// PacketsMsg delivers the current packet list from a source. The engine
// consumes only the unseen tail.
type PacketsMsg struct {
	Packets []protocol.Packet
}

// RevealMsg delivers a reveal controller event into the update loop.
type RevealMsg struct {
	Event reveal.Event
}

// StreamEndedMsg signals that the packet source finished, possibly with
// an error.
type StreamEndedMsg struct {
	Err error
}
