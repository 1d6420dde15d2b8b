package source

import (
	"context"
	"fmt"

	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// LiveSource adapts a LangChain streaming model into the packet protocol:
// the model's chunks become a message-start followed by message deltas,
// closed out with message-end and stop. Providers reached this way emit a
// single turn; tool turns only appear in captures or richer transports.
type LiveSource struct {
	llm llms.Model
	id  string
	log *logger.Logger
}

// NewLiveSource creates a live source against an Ollama-served model.
func NewLiveSource(baseURL, model string) (*LiveSource, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	return &LiveSource{
		llm: llm,
		id:  uuid.NewString(),
		log: logger.WithComponent("live_source"),
	}, nil
}

// NewLiveSourceWithModel creates a live source over an existing model,
// mainly for tests.
func NewLiveSourceWithModel(llm llms.Model) *LiveSource {
	return &LiveSource{
		llm: llm,
		id:  uuid.NewString(),
		log: logger.WithComponent("live_source"),
	}
}

// ID returns the source's stream ID.
func (l *LiveSource) ID() string {
	return l.id
}

// Stream sends the prompt and emits the growing packet list as chunks
// arrive.
func (l *LiveSource) Stream(ctx context.Context, prompt string, emit Emit) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	var packets []protocol.Packet
	started := false

	streamingFunc := func(ctx context.Context, chunk []byte) error {
		if !started {
			started = true
			packets = append(packets, protocol.Packet{
				TurnIndex: 0,
				Event:     protocol.MessageStart{},
			})
		}
		packets = append(packets, protocol.Packet{
			TurnIndex: 0,
			Event:     protocol.MessageDelta{Text: string(chunk)},
		})
		emit(packets)
		return nil
	}

	l.log.Debug("starting live stream", "stream", l.id)
	response, err := l.llm.GenerateContent(ctx, messages, llms.WithStreamingFunc(streamingFunc))
	if err != nil {
		return fmt.Errorf("generating content: %w", err)
	}

	var full string
	if len(response.Choices) > 0 {
		full = response.Choices[0].Content
	}
	if !started {
		packets = append(packets, protocol.Packet{TurnIndex: 0, Event: protocol.MessageStart{}})
		if full != "" {
			packets = append(packets, protocol.Packet{
				TurnIndex: 0,
				Event:     protocol.MessageDelta{Text: full},
			})
		}
	}
	packets = append(packets,
		protocol.Packet{TurnIndex: 0, Event: protocol.MessageEnd{Text: full}},
		protocol.Packet{TurnIndex: 0, Event: protocol.Stop{}},
	)
	emit(packets)

	l.log.Info("live stream finished", "stream", l.id, "packets", len(packets))
	return nil
}
