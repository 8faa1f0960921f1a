package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dream-ai/pdfchat/internal/session"
)

var (
	statLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// renderStatusBar summarizes the loaded documents on one line
func renderStatusBar(st session.Stats) string {
	if st.Chunks == 0 {
		return statLabelStyle.Render("no documents loaded")
	}

	files := strings.Join(st.Files, ", ")
	if len(st.Files) > 3 {
		files = fmt.Sprintf("%s and %d more", strings.Join(st.Files[:3], ", "), len(st.Files)-3)
	}

	parts := []string{
		stat("files", files),
		stat("chunks", fmt.Sprint(st.Chunks)),
		stat("turns", fmt.Sprint(st.Turns)),
	}
	if !st.UploadedAt.IsZero() {
		parts = append(parts, stat("loaded", st.UploadedAt.Format("15:04:05")))
	}
	return strings.Join(parts, statLabelStyle.Render(" | "))
}

func stat(label, value string) string {
	return statLabelStyle.Render(label+": ") + statValueStyle.Render(value)
}
