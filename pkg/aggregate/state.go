package aggregate

import (
	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/protocol"
)

// State owns every accumulator for one conversation turn: the turn
// grouping index, the section-end bookkeeping, citations, documents and
// completion flags. It consumes the externally delivered packet list
// incrementally; packets before the cursor are never revisited.
type State struct {
	cursor    int
	groups    map[int]*TurnGroup
	seenOrder []int
	closed    map[int]bool
	citations *citationSet
	documents map[string]protocol.Document
	flags     Flags

	log *logger.Logger
}

// NewState creates an empty aggregation state.
func NewState() *State {
	return &State{
		groups:    make(map[int]*TurnGroup),
		closed:    make(map[int]bool),
		citations: newCitationSet(),
		documents: make(map[string]protocol.Document),
		log:       logger.WithComponent("aggregate"),
	}
}

// Consume processes the unseen tail of the packet list and returns a
// snapshot of the derived model. The list is append-only; if it is shorter
// than the consumed position, the server reset the stream and all
// accumulator state is rebuilt from scratch.
func (s *State) Consume(packets []protocol.Packet) Snapshot {
	if len(packets) < s.cursor {
		s.log.Info("packet list shrank, resetting accumulators",
			"cursor", s.cursor, "length", len(packets))
		s.reset()
	}

	for _, pkt := range packets[s.cursor:] {
		s.consume(pkt)
	}
	s.cursor = len(packets)

	return s.snapshot()
}

// Cursor returns the last consumed position in the packet list.
func (s *State) Cursor() int {
	return s.cursor
}

// reset discards every accumulator. Stale citations, documents or flags
// must never survive a stream reset.
func (s *State) reset() {
	s.cursor = 0
	s.groups = make(map[int]*TurnGroup)
	s.seenOrder = nil
	s.closed = make(map[int]bool)
	s.citations = newCitationSet()
	s.documents = make(map[string]protocol.Document)
	s.flags = Flags{}
}

// consume folds one packet into every accumulator in a single pass.
func (s *State) consume(pkt protocol.Packet) {
	if pkt.Event == nil {
		return
	}
	kind := pkt.Event.Kind()

	// Grouping. A turn index seen for the first time implies every prior
	// turn is done, so close them before the new group accrues content.
	group, exists := s.groups[pkt.TurnIndex]
	if !exists {
		s.closeOtherTurns(pkt.TurnIndex)
		group = &TurnGroup{TurnIndex: pkt.TurnIndex}
		s.groups[pkt.TurnIndex] = group
		s.seenOrder = append(s.seenOrder, pkt.TurnIndex)
	}

	if kind == protocol.KindSectionEnd {
		// A marker for an already-closed turn is a duplicate; each group
		// keeps exactly one section-end.
		if s.closed[pkt.TurnIndex] {
			return
		}
		s.closed[pkt.TurnIndex] = true
	}

	group.Packets = append(group.Packets, pkt)

	s.accumulateCitations(pkt.Event)
	s.accumulateDocuments(pkt.Event)
	s.trackCompletion(kind)

	if kind == protocol.KindStop {
		s.closeAllTurns()
	}
}
