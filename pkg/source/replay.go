package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/google/uuid"
)

// Emit delivers the current packet list to the aggregation engine. The
// list is append-only from the consumer's point of view; a shorter list
// than previously delivered signals a reset.
type Emit func(packets []protocol.Packet)

// ReplaySource feeds a captured packet stream (JSONL, one packet per
// line) into the engine, optionally pacing packets to simulate network
// arrival.
type ReplaySource struct {
	path  string
	delay time.Duration
	id    string
	log   *logger.Logger
}

// NewReplaySource creates a replay source for a capture file.
func NewReplaySource(path string, delay time.Duration) *ReplaySource {
	return &ReplaySource{
		path:  path,
		delay: delay,
		id:    uuid.NewString(),
		log:   logger.WithComponent("replay_source"),
	}
}

// ID returns the source's stream ID.
func (r *ReplaySource) ID() string {
	return r.id
}

// Run parses the capture and emits the growing packet list after each
// packet, the same shape a live transport delivers. It returns when the
// capture is exhausted or the context is canceled.
func (r *ReplaySource) Run(ctx context.Context, emit Emit) error {
	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening capture %s: %w", r.path, err)
	}
	defer file.Close()

	parser := protocol.NewParser()
	go func() {
		if err := parser.Parse(file); err != nil {
			r.log.Warn("capture parse ended with error", "error", err)
		}
	}()

	var packets []protocol.Packet
	for {
		select {
		case <-ctx.Done():
			parser.Close()
			return ctx.Err()
		case pkt, ok := <-parser.Packets():
			if !ok {
				r.log.Info("capture replay finished",
					"stream", r.id, "packets", len(packets))
				return nil
			}
			packets = append(packets, pkt)
			emit(packets)
			if r.delay > 0 {
				select {
				case <-ctx.Done():
					parser.Close()
					return ctx.Err()
				case <-time.After(r.delay):
				}
			}
		}
	}
}
