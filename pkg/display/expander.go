package display

import (
	"fmt"

	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/protocol"
)

// ItemKind classifies a display item.
type ItemKind string

const (
	// ItemGeneric is a one-to-one rendering of a turn group.
	ItemGeneric ItemKind = "generic"

	// ItemSearching is the first step of a split document search.
	ItemSearching ItemKind = "searching"

	// ItemReading is the second step of a split document search.
	ItemReading ItemKind = "reading"
)

// Item is a renderable unit derived from one turn group. Items are
// recomputed from the current groups on every snapshot, never mutated.
type Item struct {
	Key       string
	Kind      ItemKind
	TurnIndex int
	Packets   []protocol.Packet
}

// Expand converts ordered content-bearing turn groups into the ordered
// display item list. A search over the user's own documents expands into
// a "searching" step and, once results exist or the group completed, a
// "reading" step. Web searches and all other groups map to one generic
// item. Input order is preserved.
func Expand(groups []aggregate.TurnGroup) []Item {
	var items []Item

	for _, group := range groups {
		state, isSearch := DeriveSearchState(group)
		if !isSearch || state.Internet {
			items = append(items, Item{
				Key:       groupKey(group.TurnIndex),
				Kind:      ItemGeneric,
				TurnIndex: group.TurnIndex,
				Packets:   group.Packets,
			})
			continue
		}

		items = append(items, Item{
			Key:       groupKey(group.TurnIndex),
			Kind:      ItemSearching,
			TurnIndex: group.TurnIndex,
			Packets:   group.Packets,
		})

		// The reading step is withheld while a query is still in flight
		// with nothing to read yet.
		if state.HasResults || state.Complete {
			items = append(items, Item{
				Key:       groupKey(group.TurnIndex) + "-reading",
				Kind:      ItemReading,
				TurnIndex: group.TurnIndex,
				Packets:   group.Packets,
			})
		}
	}

	return items
}

func groupKey(turnIndex int) string {
	return fmt.Sprintf("turn-%d", turnIndex)
}
