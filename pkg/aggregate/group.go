package aggregate

import "github.com/fathomchat/fathom/pkg/protocol"

// TurnGroup holds all packets sharing one turn index, in arrival order.
type TurnGroup struct {
	TurnIndex int
	Packets   []protocol.Packet
}

// HasSectionEnd reports whether the group received an explicit or
// synthesized section-end marker.
func (g TurnGroup) HasSectionEnd() bool {
	for _, pkt := range g.Packets {
		if pkt.Event.Kind() == protocol.KindSectionEnd {
			return true
		}
	}
	return false
}

// ContentBearing reports whether the group contains at least one start
// event from the message, tool or reasoning families. Groups holding only
// end markers are withheld from published snapshots.
func (g TurnGroup) ContentBearing() bool {
	for _, pkt := range g.Packets {
		if pkt.Event.Kind().IsContentStart() {
			return true
		}
	}
	return false
}

// First returns the first event of the given kind in the group.
func (g TurnGroup) First(kind protocol.Kind) (protocol.Event, bool) {
	for _, pkt := range g.Packets {
		if pkt.Event.Kind() == kind {
			return pkt.Event, true
		}
	}
	return nil, false
}

// clone returns a copy of the group whose packet slice is detached from
// the accumulator's backing array.
func (g TurnGroup) clone() TurnGroup {
	packets := make([]protocol.Packet, len(g.Packets))
	copy(packets, g.Packets)
	return TurnGroup{TurnIndex: g.TurnIndex, Packets: packets}
}
