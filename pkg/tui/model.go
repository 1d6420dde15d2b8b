package tui

import (
	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/display"
	"github.com/fathomchat/fathom/pkg/reveal"
	"github.com/fathomchat/fathom/pkg/tui/theme"
)

// Model renders one streamed assistant response: the visible tool steps
// decided by the reveal controller, then the final answer with its
// citations.
type Model struct {
	state      *aggregate.State
	snapshot   aggregate.Snapshot
	controller *reveal.Controller
	items      []display.Item
	formatter  *ToolDisplay
	styles     *theme.Styles

	width       int
	height      int
	sourceEnded bool
	err         error
}

// NewModel creates a view over a fresh aggregation state.
func NewModel(controller *reveal.Controller) Model {
	styles := theme.DefaultStyles()
	return Model{
		state:      aggregate.NewState(),
		controller: controller,
		formatter:  NewToolDisplay(styles),
		styles:     styles,
		width:      80,
	}
}
