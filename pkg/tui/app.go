package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fathomchat/fathom/pkg/config"
	"github.com/fathomchat/fathom/pkg/events"
	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/reveal"
	"github.com/fathomchat/fathom/pkg/source"
)

// AppOptions selects the packet source and initial view state.
type AppOptions struct {
	// ReplayPath, when set, replays a captured packet stream instead of
	// talking to a live model.
	ReplayPath string

	// Prompt is the message sent to the live model. Ignored in replay
	// mode.
	Prompt string

	// Expanded starts the view with all revealed steps kept on screen.
	Expanded bool
}

// StartApp wires the packet source, aggregation engine and reveal
// controller into a bubbletea program and blocks until the user quits.
func StartApp(ctx context.Context, opts AppOptions) error {
	log := logger.WithComponent("app")
	settings := config.Get()

	bus := events.NewBus()
	defer bus.Close()

	durations := reveal.Durations{
		Step:    settings.MinStepDuration(),
		Reading: settings.MinReadingDuration(),
	}
	controller := reveal.NewController(reveal.SystemClock(), durations,
		func(ev reveal.Event) {
			switch ev.(type) {
			case reveal.AllShown:
				bus.Publish(events.EventAllShown, ev, "reveal")
			default:
				bus.Publish(events.EventStepShown, ev, "reveal")
			}
		})
	defer controller.Close()
	controller.SetExpanded(opts.Expanded)

	model := NewModel(controller)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	bus.Subscribe(events.EventPackets, func(ev events.Event) {
		if packets, ok := ev.Payload.([]protocol.Packet); ok {
			program.Send(PacketsMsg{Packets: packets})
		}
	})
	bus.Subscribe(events.EventStepShown, func(ev events.Event) {
		if rev, ok := ev.Payload.(reveal.Event); ok {
			program.Send(RevealMsg{Event: rev})
		}
	})
	bus.Subscribe(events.EventAllShown, func(ev events.Event) {
		if rev, ok := ev.Payload.(reveal.Event); ok {
			program.Send(RevealMsg{Event: rev})
		}
	})
	bus.Subscribe(events.EventStreamEnded, func(ev events.Event) {
		err, _ := ev.Payload.(error)
		program.Send(StreamEndedMsg{Err: err})
	})

	emit := func(packets []protocol.Packet) {
		// Sync delivery keeps packet batches ordered
		bus.PublishSync(events.EventPackets, packets, "source")
	}

	go func() {
		err := runSource(ctx, opts, emit)
		if err != nil && ctx.Err() == nil {
			log.Error("packet source failed", "error", err)
		}
		bus.Publish(events.EventStreamEnded, err, "source")
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func runSource(ctx context.Context, opts AppOptions, emit source.Emit) error {
	settings := config.Get()

	if opts.ReplayPath != "" {
		replay := source.NewReplaySource(opts.ReplayPath, settings.ReplayDelay())
		return replay.Run(ctx, emit)
	}

	live, err := source.NewLiveSource(settings.Ollama.Host, settings.Ollama.DefaultModel)
	if err != nil {
		return err
	}
	return live.Stream(ctx, opts.Prompt, emit)
}
