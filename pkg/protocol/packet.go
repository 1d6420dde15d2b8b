package protocol

// Kind identifies the wire type tag of an event payload.
type Kind string

const (
	// Message family
	KindMessageStart Kind = "message_start"
	KindMessageDelta Kind = "message_delta"
	KindMessageEnd   Kind = "message_end"

	// Control family
	KindStop       Kind = "stop"
	KindSectionEnd Kind = "section_end"

	// Search tool
	KindSearchStart          Kind = "search_start"
	KindSearchQueriesDelta   Kind = "search_queries_delta"
	KindSearchDocumentsDelta Kind = "search_documents_delta"

	// Image generation tool
	KindImageGenStart Kind = "image_generation_start"
	KindImageGenDelta Kind = "image_generation_delta"

	// Code execution tool
	KindCodeExecStart Kind = "code_execution_start"
	KindCodeExecDelta Kind = "code_execution_delta"

	// URL fetch tool
	KindFetchStart     Kind = "fetch_start"
	KindFetchURLs      Kind = "fetch_urls"
	KindFetchDocuments Kind = "fetch_documents"

	// Custom tools
	KindCustomToolStart Kind = "custom_tool_start"
	KindCustomToolDelta Kind = "custom_tool_delta"

	// Reasoning
	KindReasoningStart Kind = "reasoning_start"
	KindReasoningDelta Kind = "reasoning_delta"
	KindReasoningDone  Kind = "reasoning_done"

	// Citations
	KindCitationStart Kind = "citation_start"
	KindCitationInfo  Kind = "citation_info"
	KindCitationDelta Kind = "citation_delta"
	KindCitationEnd   Kind = "citation_end"
)

// Event is one typed payload of the streaming wire protocol. The concrete
// type is determined by the wire tag before any family-specific parsing.
type Event interface {
	Kind() Kind
}

// Packet is one unit of the wire protocol: a typed event stamped with the
// turn index it belongs to.
type Packet struct {
	TurnIndex int
	Event     Event
}

// IsMessage reports whether the kind belongs to the message family.
func (k Kind) IsMessage() bool {
	switch k {
	case KindMessageStart, KindMessageDelta, KindMessageEnd:
		return true
	}
	return false
}

// IsContentStart reports whether the kind opens a logical step. A turn
// group holding at least one of these is content-bearing.
func (k Kind) IsContentStart() bool {
	switch k {
	case KindMessageStart, KindSearchStart, KindImageGenStart,
		KindCodeExecStart, KindFetchStart, KindCustomToolStart,
		KindReasoningStart:
		return true
	}
	return false
}

// SignalsAnswer reports whether the kind indicates that a final textual or
// generated answer has begun.
func (k Kind) SignalsAnswer() bool {
	switch k {
	case KindMessageStart, KindMessageDelta,
		KindImageGenStart, KindImageGenDelta,
		KindCodeExecStart, KindCodeExecDelta:
		return true
	}
	return false
}

// IsToolProgress reports whether the kind is a tool-family start or delta
// that does NOT itself signal an answer. These are the events that revoke
// a previously seen answer signal while the stream is still open.
func (k Kind) IsToolProgress() bool {
	switch k {
	case KindSearchStart, KindSearchQueriesDelta, KindSearchDocumentsDelta,
		KindFetchStart, KindFetchURLs, KindFetchDocuments,
		KindCustomToolStart, KindCustomToolDelta,
		KindReasoningStart, KindReasoningDelta:
		return true
	}
	return false
}
