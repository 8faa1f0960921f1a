package session

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dream-ai/pdfchat/internal/index"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short...", Excerpt("short", 500))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
	assert.Equal(t, "héé...", Excerpt("hééllo", 3))
	assert.Equal(t, strings.Repeat("x", 500)+"...", Excerpt(strings.Repeat("x", 800), 0))
}

func TestRenderMarkdown(t *testing.T) {
	turns := []ConversationTurn{
		{
			Question: "second?",
			Answer:   "yes",
			Sources: []index.ChunkRecord{
				{ID: uuid.New(), Content: "alpha"},
				{ID: uuid.New(), Content: "beta"},
			},
		},
		{Question: "first?", Answer: "no"},
	}

	out := RenderMarkdown(turns, 500)

	assert.Less(t, strings.Index(out, "second?"), strings.Index(out, "first?"))
	assert.Contains(t, out, "**You:** second?")
	assert.Contains(t, out, "**Bot:** yes")
	assert.Contains(t, out, "<details>\n<summary>Sources</summary>")
	assert.Contains(t, out, "**Chunk 1:**\nalpha...")
	assert.Contains(t, out, "**Chunk 2:**\nbeta...")
	assert.Equal(t, 1, strings.Count(out, "<details>"))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Empty(t, RenderMarkdown(nil, 500))
}
