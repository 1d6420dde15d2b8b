package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// FakeLLM implements a fake language model for testing streaming
// sources. Responses are delivered chunk by chunk through the caller's
// streaming func before the full content is returned.
type FakeLLM struct {
	mu         sync.Mutex
	chunks     []string
	err        error
	callCount  int
	lastPrompt string
}

// NewFakeLLM creates a fake LLM that streams the given chunks.
func NewFakeLLM(chunks ...string) *FakeLLM {
	return &FakeLLM{chunks: chunks}
}

// SetError configures the LLM to fail every call.
func (f *FakeLLM) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Call implements the LLM interface
func (f *FakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	response, err := f.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		options...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response generated")
	}
	return response.Choices[0].Content, nil
}

// GenerateContent implements the LLM interface. Each configured chunk is
// fed to the streaming func when one is set.
func (f *FakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	f.callCount++
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.lastPrompt = text.Text
			}
		}
	}
	chunks := append([]string(nil), f.chunks...)
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	var full string
	for _, chunk := range chunks {
		full += chunk
		if opts.StreamingFunc != nil {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: full}},
	}, nil
}

// GetCallCount returns the number of generation calls made.
func (f *FakeLLM) GetCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

// GetLastPrompt returns the last prompt text received.
func (f *FakeLLM) GetLastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPrompt
}
