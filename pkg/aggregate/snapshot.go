package aggregate

import (
	"sort"

	"github.com/fathomchat/fathom/pkg/protocol"
)

// Snapshot is the published, read-only view of the aggregation state.
// Every slice and map is copied so consumers cannot reach back into the
// accumulators.
type Snapshot struct {
	// Groups holds the content-bearing turn groups sorted by turn index.
	Groups []TurnGroup

	// Citations in first-seen document order.
	Citations []protocol.Citation

	// CitationsByNum maps a citation number to its most recent document.
	CitationsByNum map[int]string

	// Documents maps document IDs to documents from tool results.
	Documents map[string]protocol.Document

	Flags Flags
}

// snapshot builds a copy-on-read view of the current state.
func (s *State) snapshot() Snapshot {
	groups := make([]TurnGroup, 0, len(s.groups))
	for _, group := range s.groups {
		if group.ContentBearing() {
			groups = append(groups, group.clone())
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].TurnIndex < groups[j].TurnIndex
	})

	citations := make([]protocol.Citation, len(s.citations.ordered))
	copy(citations, s.citations.ordered)

	byNum := make(map[int]string, len(s.citations.byNum))
	for num, id := range s.citations.byNum {
		byNum[num] = id
	}

	documents := make(map[string]protocol.Document, len(s.documents))
	for id, doc := range s.documents {
		documents[id] = doc
	}

	return Snapshot{
		Groups:         groups,
		Citations:      citations,
		CitationsByNum: byNum,
		Documents:      documents,
		Flags:          s.flags,
	}
}

// Group returns the content-bearing group for a turn index, if present.
func (snap Snapshot) Group(turnIndex int) (TurnGroup, bool) {
	for _, g := range snap.Groups {
		if g.TurnIndex == turnIndex {
			return g, true
		}
	}
	return TurnGroup{}, false
}
