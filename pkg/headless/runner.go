package headless

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/config"
	"github.com/fathomchat/fathom/pkg/display"
	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/source"
)

// Runner consumes a packet source without a terminal UI and writes a
// plain-text transcript once the stream finishes: tool steps in order,
// then the answer, then the citation list.
type Runner struct {
	out io.Writer
	log *logger.Logger

	mu    sync.Mutex
	state *aggregate.State
	snap  aggregate.Snapshot
}

// NewRunner creates a headless runner writing to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{
		out:   out,
		log:   logger.WithComponent("headless"),
		state: aggregate.NewState(),
	}
}

// Run drives the source to completion and prints the transcript.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	emit := func(packets []protocol.Packet) {
		r.mu.Lock()
		r.snap = r.state.Consume(packets)
		r.mu.Unlock()
	}

	var err error
	if opts.ReplayPath != "" {
		replay := source.NewReplaySource(opts.ReplayPath, 0)
		err = replay.Run(ctx, emit)
	} else {
		if opts.Prompt == "" {
			return fmt.Errorf("prompt cannot be empty in headless mode")
		}
		var live *source.LiveSource
		settings := config.Get()
		live, err = source.NewLiveSource(settings.Ollama.Host, settings.Ollama.DefaultModel)
		if err != nil {
			return fmt.Errorf("creating live source: %w", err)
		}
		err = live.Stream(ctx, opts.Prompt, emit)
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeTranscript()
}

// Options selects the packet source for a headless run.
type Options struct {
	ReplayPath string
	Prompt     string
}

func (r *Runner) writeTranscript() error {
	items := display.Expand(r.snap.Groups)
	for _, item := range items {
		group, ok := r.snap.Group(item.TurnIndex)
		if !ok {
			continue
		}
		if line := describeItem(item, group); line != "" {
			if _, err := fmt.Fprintln(r.out, line); err != nil {
				return err
			}
		}
	}

	if answer := answerText(r.snap); answer != "" {
		if _, err := fmt.Fprintf(r.out, "\n%s\n", answer); err != nil {
			return err
		}
	}

	if len(r.snap.Citations) > 0 {
		if _, err := fmt.Fprintln(r.out); err != nil {
			return err
		}
		for _, c := range r.snap.Citations {
			label := c.DocumentID
			if doc, ok := r.snap.Documents[c.DocumentID]; ok && doc.Title != "" {
				label = doc.Title
			}
			if _, err := fmt.Fprintf(r.out, "[%d] %s\n", c.CitationNum, label); err != nil {
				return err
			}
		}
	}

	r.log.Info("transcript written",
		"steps", len(items), "citations", len(r.snap.Citations))
	return nil
}

// describeItem renders one transcript line per display item.
func describeItem(item display.Item, group aggregate.TurnGroup) string {
	switch item.Kind {
	case display.ItemSearching:
		state, _ := display.DeriveSearchState(group)
		return fmt.Sprintf("* Searching: %s", strings.Join(state.Queries, ", "))
	case display.ItemReading:
		state, _ := display.DeriveSearchState(group)
		var titles []string
		for _, doc := range state.Documents {
			if doc.Title != "" {
				titles = append(titles, doc.Title)
			} else {
				titles = append(titles, doc.ID)
			}
		}
		return fmt.Sprintf("* Reading: %s", strings.Join(titles, ", "))
	default:
		return describeGeneric(group)
	}
}

func describeGeneric(group aggregate.TurnGroup) string {
	for _, pkt := range group.Packets {
		switch e := pkt.Event.(type) {
		case protocol.MessageStart:
			return ""
		case protocol.ReasoningStart:
			return "* Thinking"
		case protocol.CodeExecStart:
			if e.Language != "" {
				return fmt.Sprintf("* Running code (%s)", e.Language)
			}
			return "* Running code"
		case protocol.FetchStart:
			return fmt.Sprintf("* Fetching %s", e.URL)
		case protocol.ImageGenStart:
			return "* Generating image"
		case protocol.CustomToolStart:
			return fmt.Sprintf("* Tool: %s", e.Name)
		case protocol.SearchStart:
			return "* Searching the web"
		}
	}
	return ""
}

// answerText joins the message text of every answer-bearing group.
func answerText(snap aggregate.Snapshot) string {
	var parts []string
	for _, group := range snap.Groups {
		var text strings.Builder
		sawMessage := false
		for _, pkt := range group.Packets {
			switch e := pkt.Event.(type) {
			case protocol.MessageStart:
				sawMessage = true
				text.WriteString(e.Text)
			case protocol.MessageDelta:
				text.WriteString(e.Text)
			case protocol.MessageEnd:
				if e.Text != "" {
					text.Reset()
					text.WriteString(e.Text)
				}
			}
		}
		if sawMessage && text.Len() > 0 {
			parts = append(parts, text.String())
		}
	}
	return strings.Join(parts, "\n")
}
