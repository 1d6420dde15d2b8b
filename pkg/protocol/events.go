package protocol

import "encoding/json"

// Document is an opaque reference surfaced by tool results, keyed by a
// stable document ID.
type Document struct {
	ID      string `json:"document_id"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Citation is a numbered reference from generated text to a document.
type Citation struct {
	CitationNum int    `json:"citation_num"`
	DocumentID  string `json:"document_id"`
}

// Message family

// MessageStart opens the assistant's textual answer for a turn.
type MessageStart struct {
	Text string `json:"text,omitempty"`
}

// MessageDelta carries a partial chunk of the answer text.
type MessageDelta struct {
	Text string `json:"text"`
}

// MessageEnd closes the answer text, optionally carrying the full text.
type MessageEnd struct {
	Text string `json:"text,omitempty"`
}

func (MessageStart) Kind() Kind { return KindMessageStart }
func (MessageDelta) Kind() Kind { return KindMessageDelta }
func (MessageEnd) Kind() Kind   { return KindMessageEnd }

// Control family

// Stop marks the end of the entire packet stream for a response.
type Stop struct{}

// SectionEnd marks the end of one logical turn. Synthetic is set on
// markers generated locally when the upstream protocol omitted one.
type SectionEnd struct {
	Synthetic bool `json:"synthetic,omitempty"`
}

func (Stop) Kind() Kind       { return KindStop }
func (SectionEnd) Kind() Kind { return KindSectionEnd }

// Search tool

// SearchStart opens a search tool call. Internet distinguishes web search
// from search over the user's own documents.
type SearchStart struct {
	Internet bool `json:"internet"`
}

// SearchQueriesDelta carries the queries issued so far.
type SearchQueriesDelta struct {
	Queries []string `json:"queries"`
}

// SearchDocumentsDelta carries result documents as they are found.
type SearchDocumentsDelta struct {
	Documents []Document `json:"documents"`
}

func (SearchStart) Kind() Kind          { return KindSearchStart }
func (SearchQueriesDelta) Kind() Kind   { return KindSearchQueriesDelta }
func (SearchDocumentsDelta) Kind() Kind { return KindSearchDocumentsDelta }

// Image generation tool

// ImageGenStart opens an image generation call.
type ImageGenStart struct {
	Prompt string `json:"prompt,omitempty"`
}

// ImageGenDelta carries a partial generated image.
type ImageGenDelta struct {
	Data string `json:"data,omitempty"`
}

func (ImageGenStart) Kind() Kind { return KindImageGenStart }
func (ImageGenDelta) Kind() Kind { return KindImageGenDelta }

// Code execution tool

// CodeExecStart opens a code execution call.
type CodeExecStart struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

// CodeExecDelta carries execution output. Stderr content is surfaced as
// status text by renderers, not treated as a protocol fault.
type CodeExecDelta struct {
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

func (CodeExecStart) Kind() Kind { return KindCodeExecStart }
func (CodeExecDelta) Kind() Kind { return KindCodeExecDelta }

// URL fetch tool

// FetchStart opens a URL fetch call.
type FetchStart struct {
	URL string `json:"url,omitempty"`
}

// FetchURLs carries the URLs being fetched.
type FetchURLs struct {
	URLs []string `json:"urls"`
}

// FetchDocuments carries the fetched documents.
type FetchDocuments struct {
	Documents []Document `json:"documents"`
}

func (FetchStart) Kind() Kind     { return KindFetchStart }
func (FetchURLs) Kind() Kind      { return KindFetchURLs }
func (FetchDocuments) Kind() Kind { return KindFetchDocuments }

// Custom tools

// CustomToolStart opens a provider-defined tool call.
type CustomToolStart struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CustomToolDelta carries partial output of a provider-defined tool.
type CustomToolDelta struct {
	Output string `json:"output,omitempty"`
}

func (CustomToolStart) Kind() Kind { return KindCustomToolStart }
func (CustomToolDelta) Kind() Kind { return KindCustomToolDelta }

// Reasoning

// ReasoningStart opens a reasoning block.
type ReasoningStart struct{}

// ReasoningDelta carries partial reasoning text.
type ReasoningDelta struct {
	Text string `json:"text"`
}

// ReasoningDone closes a reasoning block.
type ReasoningDone struct{}

func (ReasoningStart) Kind() Kind { return KindReasoningStart }
func (ReasoningDelta) Kind() Kind { return KindReasoningDelta }
func (ReasoningDone) Kind() Kind  { return KindReasoningDone }

// Citations

// CitationStart opens a citation block.
type CitationStart struct{}

// CitationInfo is the granular citation form: one citation per packet.
type CitationInfo struct {
	CitationNumber int    `json:"citation_number"`
	DocumentID     string `json:"document_id"`
}

// CitationDelta is the batched citation form.
type CitationDelta struct {
	Citations []Citation `json:"citations"`
}

// CitationEnd closes a citation block.
type CitationEnd struct{}

func (CitationStart) Kind() Kind { return KindCitationStart }
func (CitationInfo) Kind() Kind  { return KindCitationInfo }
func (CitationDelta) Kind() Kind { return KindCitationDelta }
func (CitationEnd) Kind() Kind   { return KindCitationEnd }

// Unknown preserves events whose tag this build does not recognize. They
// are grouped by turn index like any other event and ignored by the
// family-specific interpreters.
type Unknown struct {
	Tag string
	Raw json.RawMessage
}

func (u Unknown) Kind() Kind { return Kind(u.Tag) }
