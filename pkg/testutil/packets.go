package testutil

import "github.com/fathomchat/fathom/pkg/protocol"

// Pkt builds a packet for tests.
func Pkt(turnIndex int, event protocol.Event) protocol.Packet {
	return protocol.Packet{TurnIndex: turnIndex, Event: event}
}

// Doc builds a minimal document for tests.
func Doc(id, title string) protocol.Document {
	return protocol.Document{ID: id, Title: title}
}

// InternalSearchTurn returns the canonical document-search turn: start,
// one query, one result, explicit section end.
func InternalSearchTurn(turnIndex int, doc protocol.Document) []protocol.Packet {
	return []protocol.Packet{
		Pkt(turnIndex, protocol.SearchStart{Internet: false}),
		Pkt(turnIndex, protocol.SearchQueriesDelta{Queries: []string{"x"}}),
		Pkt(turnIndex, protocol.SearchDocumentsDelta{Documents: []protocol.Document{doc}}),
		Pkt(turnIndex, protocol.SectionEnd{}),
	}
}
