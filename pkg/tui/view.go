package tui

import (
	"strings"

	"github.com/fathomchat/fathom/pkg/protocol"
)

func (m Model) View() string {
	var b strings.Builder

	visible := m.controller.Visible()
	if len(visible) == 0 && len(m.snapshot.Groups) == 0 {
		b.WriteString(m.styles.Muted.Render("Waiting for response..."))
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		return b.String()
	}

	for _, item := range visible {
		rendered := m.formatter.FormatItem(item, m.snapshot)
		if rendered == "" {
			continue
		}
		b.WriteString(rendered)
		b.WriteString("\n\n")
	}

	if m.snapshot.Flags.FinalAnswerComing {
		if answer := m.answerText(); answer != "" {
			b.WriteString(answer)
			b.WriteString("\n")
		}
		if citations := m.formatter.FormatCitations(m.snapshot); citations != "" {
			b.WriteString("\n")
			b.WriteString(citations)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// answerText collects the message text across all answer-bearing groups,
// in turn order.
func (m Model) answerText() string {
	var parts []string
	for _, group := range m.snapshot.Groups {
		if _, ok := group.First(protocol.KindMessageStart); !ok {
			continue
		}
		if text := messageText(group); text != "" {
			parts = append(parts, m.styles.MessageText.Render(text))
		}
	}
	return strings.Join(parts, "\n")
}

func (m Model) statusLine() string {
	var parts []string

	switch {
	case m.err != nil:
		parts = append(parts, m.styles.ToolError.Render("stream error: "+m.err.Error()))
	case m.snapshot.Flags.DisplayComplete:
		parts = append(parts, m.styles.ToolSuccess.Render("done"))
	case m.snapshot.Flags.StopSeen:
		parts = append(parts, m.styles.Muted.Render("finishing..."))
	case m.sourceEnded:
		parts = append(parts, m.styles.Muted.Render("stream ended"))
	default:
		parts = append(parts, m.styles.Muted.Render("streaming..."))
	}

	if m.controller.Expanded() {
		parts = append(parts, m.styles.Muted.Render("[tab] collapse"))
	} else {
		parts = append(parts, m.styles.Muted.Render("[tab] expand"))
	}
	parts = append(parts, m.styles.Muted.Render("[q] quit"))

	return m.styles.StatusLine.Render(strings.Join(parts, "  "))
}
