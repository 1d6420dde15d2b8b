package tui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fathomchat/fathom/pkg/aggregate"
	"github.com/fathomchat/fathom/pkg/display"
	"github.com/fathomchat/fathom/pkg/protocol"
	"github.com/fathomchat/fathom/pkg/tui/theme"
)

// ToolDisplay formats display items for the chat view
type ToolDisplay struct {
	styles    *theme.Styles
	formatter chroma.Formatter
}

// NewToolDisplay creates a display formatter
func NewToolDisplay(s *theme.Styles) *ToolDisplay {
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &ToolDisplay{styles: s, formatter: formatter}
}

// FormatItem renders one display item
func (td *ToolDisplay) FormatItem(item display.Item, snap aggregate.Snapshot) string {
	group, ok := snap.Group(item.TurnIndex)
	if !ok {
		return ""
	}

	switch item.Kind {
	case display.ItemSearching:
		return td.formatSearching(group)
	case display.ItemReading:
		return td.formatReading(group)
	default:
		return td.formatGeneric(group)
	}
}

// formatGeneric dispatches on the group's opening event
func (td *ToolDisplay) formatGeneric(group aggregate.TurnGroup) string {
	for _, pkt := range group.Packets {
		switch e := pkt.Event.(type) {
		case protocol.MessageStart:
			return td.styles.MessageText.Render(messageText(group))
		case protocol.ReasoningStart:
			return td.formatReasoning(group)
		case protocol.CodeExecStart:
			return td.formatCodeExec(e, group)
		case protocol.FetchStart:
			return td.formatFetch(e, group)
		case protocol.ImageGenStart:
			return td.header("Generating image", "", !group.HasSectionEnd())
		case protocol.CustomToolStart:
			return td.formatCustomTool(e, group)
		case protocol.SearchStart:
			// Web search renders as a single step
			return td.formatWebSearch(group)
		}
	}
	return ""
}

func (td *ToolDisplay) formatSearching(group aggregate.TurnGroup) string {
	state, _ := display.DeriveSearchState(group)
	return td.header("Searching", strings.Join(state.Queries, ", "),
		!state.HasResults && !state.Complete)
}

func (td *ToolDisplay) formatReading(group aggregate.TurnGroup) string {
	state, _ := display.DeriveSearchState(group)

	lines := []string{td.header("Reading", "", !state.Complete)}
	for _, doc := range state.Documents {
		lines = append(lines, td.outputLine(docLabel(doc)))
	}
	return strings.Join(lines, "\n")
}

func (td *ToolDisplay) formatWebSearch(group aggregate.TurnGroup) string {
	state, _ := display.DeriveSearchState(group)

	lines := []string{td.header("Searching the web",
		strings.Join(state.Queries, ", "), !state.Complete)}
	for _, doc := range state.Documents {
		lines = append(lines, td.outputLine(docLabel(doc)))
	}
	return strings.Join(lines, "\n")
}

func (td *ToolDisplay) formatReasoning(group aggregate.TurnGroup) string {
	var text strings.Builder
	for _, pkt := range group.Packets {
		if delta, ok := pkt.Event.(protocol.ReasoningDelta); ok {
			text.WriteString(delta.Text)
		}
	}

	lines := []string{td.header("Thinking", "", !group.HasSectionEnd())}
	if text.Len() > 0 {
		lines = append(lines, td.styles.ReasoningText.Render(truncate(text.String(), 400)))
	}
	return strings.Join(lines, "\n")
}

func (td *ToolDisplay) formatCodeExec(start protocol.CodeExecStart, group aggregate.TurnGroup) string {
	lines := []string{td.header("Running code", start.Language, !group.HasSectionEnd())}

	if start.Code != "" {
		lines = append(lines, td.highlightCode(start.Code, start.Language))
	}

	var stdout, stderr strings.Builder
	for _, pkt := range group.Packets {
		if delta, ok := pkt.Event.(protocol.CodeExecDelta); ok {
			stdout.WriteString(delta.Stdout)
			stderr.WriteString(delta.Stderr)
		}
	}
	if stdout.Len() > 0 {
		lines = append(lines, td.outputLine(truncate(stdout.String(), 200)))
	}
	if stderr.Len() > 0 {
		// Execution errors surface as status text, never as a fault
		lines = append(lines, fmt.Sprintf("  %s %s",
			td.styles.ToolOutputPrefix.Render("⎿"),
			td.styles.ToolError.Render("✗ "+truncate(stderr.String(), 200))))
	}
	return strings.Join(lines, "\n")
}

func (td *ToolDisplay) formatFetch(start protocol.FetchStart, group aggregate.TurnGroup) string {
	lines := []string{td.header("Fetching", start.URL, !group.HasSectionEnd())}
	for _, pkt := range group.Packets {
		switch e := pkt.Event.(type) {
		case protocol.FetchURLs:
			for _, url := range e.URLs {
				lines = append(lines, td.outputLine(url))
			}
		case protocol.FetchDocuments:
			for _, doc := range e.Documents {
				lines = append(lines, td.outputLine(docLabel(doc)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (td *ToolDisplay) formatCustomTool(start protocol.CustomToolStart, group aggregate.TurnGroup) string {
	lines := []string{td.header(start.Name, formatArguments(start.Arguments),
		!group.HasSectionEnd())}

	var output strings.Builder
	for _, pkt := range group.Packets {
		if delta, ok := pkt.Event.(protocol.CustomToolDelta); ok {
			output.WriteString(delta.Output)
		}
	}
	if output.Len() > 0 {
		lines = append(lines, td.outputLine(truncate(output.String(), 200)))
	}
	return strings.Join(lines, "\n")
}

// FormatCitations renders the citation footer in first-seen order
func (td *ToolDisplay) FormatCitations(snap aggregate.Snapshot) string {
	if len(snap.Citations) == 0 {
		return ""
	}

	var lines []string
	for _, c := range snap.Citations {
		label := c.DocumentID
		if doc, ok := snap.Documents[c.DocumentID]; ok {
			label = docLabel(doc)
		}
		lines = append(lines, fmt.Sprintf("  %s %s",
			td.styles.CitationNum.Render(fmt.Sprintf("[%d]", c.CitationNum)),
			td.styles.CitationDoc.Render(label)))
	}
	return strings.Join(lines, "\n")
}

// header renders the "● Name(detail)" line, with a pending marker while
// the step is still in flight
func (td *ToolDisplay) header(name, detail string, pending bool) string {
	line := fmt.Sprintf("%s %s",
		td.styles.ToolIndicator.Render("●"),
		td.styles.ToolName.Render(name))
	if detail != "" {
		line += fmt.Sprintf("(%s)", detail)
	}
	if pending {
		line += " " + td.styles.ToolPending.Render("…")
	} else {
		line += " " + td.styles.ToolSuccess.Render("✓")
	}
	return line
}

// outputLine renders a "⎿ content" result line
func (td *ToolDisplay) outputLine(content string) string {
	lines := strings.Split(content, "\n")

	var formatted []string
	for i, line := range lines {
		if i == 0 {
			formatted = append(formatted, fmt.Sprintf("  %s %s",
				td.styles.ToolOutputPrefix.Render("⎿"), line))
		} else {
			formatted = append(formatted, fmt.Sprintf("    %s", line))
		}
	}
	return strings.Join(formatted, "\n")
}

// highlightCode applies syntax highlighting to code content
func (td *ToolDisplay) highlightCode(content, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := td.formatter.Format(&buf, styles.Get("monokai"), iterator); err != nil {
		return content
	}
	return buf.String()
}

// messageText concatenates the answer text for a message group. An end
// event carrying the full text wins over accumulated deltas.
func messageText(group aggregate.TurnGroup) string {
	var text strings.Builder
	for _, pkt := range group.Packets {
		switch e := pkt.Event.(type) {
		case protocol.MessageStart:
			text.WriteString(e.Text)
		case protocol.MessageDelta:
			text.WriteString(e.Text)
		case protocol.MessageEnd:
			if e.Text != "" {
				return e.Text
			}
		}
	}
	return text.String()
}

func docLabel(doc protocol.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	if doc.URL != "" {
		return doc.URL
	}
	return doc.ID
}

// formatArguments formats tool arguments for display
func formatArguments(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	var parts []string
	for key, value := range args {
		var valueStr string
		switch v := value.(type) {
		case string:
			if len(v) > 50 {
				valueStr = fmt.Sprintf("%q", v[:47]+"...")
			} else {
				valueStr = fmt.Sprintf("%q", v)
			}
		default:
			valueStr = fmt.Sprintf("%v", v)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, valueStr))
	}
	return strings.Join(parts, ", ")
}

// truncate shortens output for display, preferring a newline boundary
func truncate(output string, maxLen int) string {
	if len(output) <= maxLen {
		return output
	}

	truncated := output[:maxLen]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxLen/2 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}
