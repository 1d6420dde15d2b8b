package aggregate

import "github.com/fathomchat/fathom/pkg/protocol"

// Flags are the derived completion signals for one conversation turn.
type Flags struct {
	// FinalAnswerComing is set once a final textual or generated answer
	// has begun. It is revoked if a tool call interleaves before the
	// stream stops.
	FinalAnswerComing bool

	// StopSeen is set once the stream has fully stopped.
	StopSeen bool

	// DisplayComplete is set by the external renderer once the last
	// display group has finished rendering, provided FinalAnswerComing
	// still holds at that moment.
	DisplayComplete bool
}

// trackCompletion updates the flags from one event kind. Unknown kinds
// are inert.
//
// Revocation applies to tool progress on ANY turn index: some providers
// emit a short preamble fragment on one turn and then call a tool on the
// next, and the preamble must not be treated as the final answer.
func (s *State) trackCompletion(kind protocol.Kind) {
	switch {
	case kind == protocol.KindStop:
		s.flags.StopSeen = true
	case kind.SignalsAnswer():
		s.flags.FinalAnswerComing = true
	case kind.IsToolProgress():
		if s.flags.FinalAnswerComing && !s.flags.StopSeen {
			s.flags.FinalAnswerComing = false
			s.flags.DisplayComplete = false
			s.log.Debug("revoked final answer signal", "kind", kind)
		}
	}
}

// MarkDisplayComplete is the renderer's signal that the last display group
// has finished rendering. The flag only latches if the final answer signal
// still holds when the signal arrives.
func (s *State) MarkDisplayComplete() {
	if s.flags.FinalAnswerComing {
		s.flags.DisplayComplete = true
	}
}

// Flags returns the current completion flags.
func (s *State) Flags() Flags {
	return s.flags
}
