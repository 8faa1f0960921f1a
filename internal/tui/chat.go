package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dream-ai/pdfchat/internal/session"
)

var (
	youStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	chunkStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// renderHistory renders turns in the order given, which is most recent first.
// Source excerpts are shown only when showSources is set.
func renderHistory(turns []session.ConversationTurn, showSources bool, excerptChars, width int) string {
	if len(turns) == 0 {
		return sourceStyle.Render("No questions yet.")
	}

	wrap := lipgloss.NewStyle().Width(max(20, width-2))
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n" + sourceStyle.Render(strings.Repeat("─", max(10, width/2))) + "\n\n")
		}
		b.WriteString(wrap.Render(youStyle.Render("You: ") + t.Question))
		b.WriteString("\n")
		b.WriteString(wrap.Render(botStyle.Render("Bot: ") + t.Answer))
		b.WriteString("\n")

		if len(t.Sources) == 0 {
			continue
		}
		if !showSources {
			b.WriteString(sourceStyle.Render(fmt.Sprintf("▸ Sources (%d)", len(t.Sources))))
			b.WriteString("\n")
			continue
		}
		b.WriteString(sourceStyle.Render("▾ Sources"))
		b.WriteString("\n")
		for j, src := range t.Sources {
			label := fmt.Sprintf("Chunk %d:", j+1)
			if j < len(t.Scores) {
				label = fmt.Sprintf("Chunk %d (%.2f):", j+1, t.Scores[j])
			}
			b.WriteString(chunkStyle.Render(label))
			b.WriteString("\n")
			b.WriteString(wrap.Render(sourceStyle.Render(session.Excerpt(src.Content, excerptChars))))
			b.WriteString("\n")
		}
	}
	return b.String()
}
