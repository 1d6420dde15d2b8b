package aggregate

import "github.com/fathomchat/fathom/pkg/protocol"

// citationSet accumulates citations from both wire shapes into an ordered
// list (first document occurrence wins the display slot) and a lookup map
// (most recent mapping for a citation number wins).
type citationSet struct {
	ordered  []protocol.Citation
	byNum    map[int]string
	seenDocs map[string]bool
}

func newCitationSet() *citationSet {
	return &citationSet{
		byNum:    make(map[int]string),
		seenDocs: make(map[string]bool),
	}
}

// add records one citation. Replaying the same citation is a no-op for
// the ordered list and leaves the map unchanged.
func (cs *citationSet) add(c protocol.Citation) {
	if c.DocumentID == "" {
		return
	}

	cs.byNum[c.CitationNum] = c.DocumentID

	if !cs.seenDocs[c.DocumentID] {
		cs.seenDocs[c.DocumentID] = true
		cs.ordered = append(cs.ordered, c)
	}
}

// accumulateCitations extracts citations from citation-family events.
// Other kinds are inert.
func (s *State) accumulateCitations(event protocol.Event) {
	switch e := event.(type) {
	case protocol.CitationInfo:
		s.citations.add(protocol.Citation{
			CitationNum: e.CitationNumber,
			DocumentID:  e.DocumentID,
		})
	case protocol.CitationDelta:
		for _, c := range e.Citations {
			s.citations.add(c)
		}
	}
}
