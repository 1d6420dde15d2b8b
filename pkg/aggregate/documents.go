package aggregate

import "github.com/fathomchat/fathom/pkg/protocol"

// accumulateDocuments collects documents surfaced by search and fetch
// results into the lookup map. Later occurrences of an ID overwrite
// earlier ones; entries without an ID are skipped. Consumers needing
// order use the citation list instead.
func (s *State) accumulateDocuments(event protocol.Event) {
	var docs []protocol.Document
	switch e := event.(type) {
	case protocol.SearchDocumentsDelta:
		docs = e.Documents
	case protocol.FetchDocuments:
		docs = e.Documents
	default:
		return
	}

	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		s.documents[doc.ID] = doc
	}
}
