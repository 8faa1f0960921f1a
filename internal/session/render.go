package session

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptChars is how much of each source chunk is shown
const DefaultExcerptChars = 500

// Excerpt returns the first n characters of content followed by "...".
// The marker is appended even when nothing was cut.
func Excerpt(content string, n int) string {
	if n <= 0 {
		n = DefaultExcerptChars
	}
	if utf8.RuneCountInString(content) > n {
		content = string([]rune(content)[:n])
	}
	return content + "..."
}

// RenderMarkdown renders turns in the given order. Sources go into a
// collapsible block with one excerpt per chunk.
func RenderMarkdown(turns []ConversationTurn, excerptChars int) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "**You:** %s\n\n", t.Question)
		fmt.Fprintf(&b, "**Bot:** %s\n", t.Answer)
		if len(t.Sources) == 0 {
			continue
		}
		b.WriteString("\n<details>\n<summary>Sources</summary>\n\n")
		for j, src := range t.Sources {
			fmt.Fprintf(&b, "**Chunk %d:**\n%s\n\n", j+1, Excerpt(src.Content, excerptChars))
		}
		b.WriteString("</details>\n")
	}
	return b.String()
}
