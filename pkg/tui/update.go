package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/display"
	"github.com/fathomchat/fathom/pkg/reveal"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.controller.Close()
			return m, tea.Quit
		case "tab", "e":
			m.controller.ToggleExpanded()
		}

	case PacketsMsg:
		m.snapshot = m.state.Consume(msg.Packets)
		m.items = display.Expand(m.snapshot.Groups)
		m.controller.SetItems(m.items)
		m.reportFinishedItems()

	case RevealMsg:
		if _, ok := msg.Event.(reveal.AllShown); ok {
			// Last display group is on screen; latch display completion
			// if the final answer signal still holds.
			m.state.MarkDisplayComplete()
			m.snapshot = refreshFlags(m.snapshot, m.state)
		}

	case StreamEndedMsg:
		m.sourceEnded = true
		m.err = msg.Err
	}

	return m, nil
}

// reportFinishedItems tells the controller which display items have
// finished rendering. With textual rendering an item is finished as soon
// as everything it will ever show is present.
func (m Model) reportFinishedItems() {
	for _, item := range m.items {
		if m.itemFinished(item) {
			m.controller.ItemRendered(item.Key)
		}
	}
}

// itemFinished decides per kind: a searching step is done once results
// exist or the group closed; a reading step and a generic step are done
// when the group closed.
func (m Model) itemFinished(item display.Item) bool {
	group, ok := m.snapshot.Group(item.TurnIndex)
	if !ok {
		return false
	}

	switch item.Kind {
	case display.ItemSearching:
		state, isSearch := display.DeriveSearchState(group)
		return isSearch && (state.HasResults || state.Complete)
	default:
		return group.HasSectionEnd()
	}
}

// refreshFlags re-reads the flags without re-consuming packets.
func refreshFlags(snap aggregate.Snapshot, state *aggregate.State) aggregate.Snapshot {
	snap.Flags = state.Flags()
	return snap
}
