package display

import (
	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/protocol"
)

// SearchState is the derived view of a search tool group.
type SearchState struct {
	// Internet distinguishes web search from search over the user's own
	// documents; only the latter splits into two display steps.
	Internet bool

	// Queries issued so far, in arrival order.
	Queries []string

	// Documents found so far, in arrival order.
	Documents []protocol.Document

	// HasResults reports whether at least one result document arrived.
	HasResults bool

	// Complete reports whether the group received its section-end.
	Complete bool
}

// DeriveSearchState folds a turn group into a search state. The second
// return value is false when the group holds no search tool call.
func DeriveSearchState(group aggregate.TurnGroup) (SearchState, bool) {
	var state SearchState
	found := false

	for _, pkt := range group.Packets {
		switch e := pkt.Event.(type) {
		case protocol.SearchStart:
			if !found {
				found = true
				state.Internet = e.Internet
			}
		case protocol.SearchQueriesDelta:
			state.Queries = append(state.Queries, e.Queries...)
		case protocol.SearchDocumentsDelta:
			state.Documents = append(state.Documents, e.Documents...)
			if len(e.Documents) > 0 {
				state.HasResults = true
			}
		case protocol.SectionEnd:
			state.Complete = true
		}
	}

	return state, found
}
