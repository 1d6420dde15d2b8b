package aggregate

import "github.com/fathomchat/fathom/pkg/protocol"

// Section-end synthesis. The upstream protocol does not reliably emit a
// section-end for every turn, but downstream consumers treat "has a
// section-end" as the completion signal for a group. Two observations let
// a missing marker be synthesized: a packet for a brand-new turn index
// (all prior turns are done) and a stream stop (every turn is done).

// closeOtherTurns synthesizes section-ends for every previously seen turn
// index still lacking one. Called when a new turn index is first observed.
func (s *State) closeOtherTurns(newIndex int) {
	for _, idx := range s.seenOrder {
		if idx != newIndex {
			s.closeTurn(idx)
		}
	}
}

// closeAllTurns synthesizes section-ends for every seen turn index still
// lacking one. Called on stream stop.
func (s *State) closeAllTurns() {
	for _, idx := range s.seenOrder {
		s.closeTurn(idx)
	}
}

// closeTurn appends a synthetic section-end to the group for idx unless
// the turn is already closed. The closed set prevents double synthesis.
func (s *State) closeTurn(idx int) {
	if s.closed[idx] {
		return
	}
	s.closed[idx] = true

	group, exists := s.groups[idx]
	if !exists {
		return
	}
	group.Packets = append(group.Packets, protocol.Packet{
		TurnIndex: idx,
		Event:     protocol.SectionEnd{Synthetic: true},
	})
	s.log.Debug("synthesized section end", "turn", idx)
}
