package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-ai/pdfchat/internal/embeddings"
	"github.com/dream-ai/pdfchat/internal/index"
	"github.com/dream-ai/pdfchat/internal/ollama"
)

type fakeLLM struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, req *ollama.GenerateRequest) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type failingEmbedder struct{ calls int }

func (f *failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	return nil, &embeddings.EmbeddingError{Model: "llama3", StatusCode: 500, Err: errors.New("boom")}
}

var corpus = []string{
	"The capital of France is Paris.",
	"Rust and Go are systems programming languages.",
	"Paris hosts the Louvre museum.",
	"Photosynthesis converts light into chemical energy.",
	"Bananas are rich in potassium.",
}

func buildIndex(t *testing.T, emb embeddings.Embedder, chunks []string) index.Index {
	t.Helper()
	idx, err := NewIndexer(emb, index.MemoryBuilder{}, nil).Build(context.Background(), chunks)
	require.NoError(t, err)
	return idx
}

func TestIndexerBuild(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)

	assert.Equal(t, len(corpus), idx.Len())
	assert.Equal(t, 1, emb.Calls)
}

func TestIndexerNoChunks(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	_, err := NewIndexer(emb, index.MemoryBuilder{}, nil).Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Zero(t, emb.Calls)
}

func TestIndexerEmbeddingFailure(t *testing.T) {
	_, err := NewIndexer(&failingEmbedder{}, index.MemoryBuilder{}, nil).Build(context.Background(), corpus)
	require.Error(t, err)

	var embErr *embeddings.EmbeddingError
	assert.ErrorAs(t, err, &embErr)
}

func TestIndexerGenerationsDiffer(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	a := buildIndex(t, emb, corpus)
	b := buildIndex(t, emb, corpus)
	assert.NotEqual(t, a.Generation(), b.Generation())
}

func TestRetrieverReturnsAtMostTopK(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)

	res, err := NewRetriever(emb, 3, 20, 0.5).Retrieve(context.Background(), idx, "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, res.Documents, 3)
	assert.Len(t, res.Scores, 3)
	assert.Equal(t, corpus[0], res.Documents[0].Content)
}

func TestRetrieverSingleDocument(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, []string{"only chunk"})

	res, err := NewRetriever(emb, 3, 20, 0.5).Retrieve(context.Background(), idx, "anything")
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "only chunk", res.Records()[0].Content)
}

func TestRetrieverNoDuplicates(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)

	res, err := NewRetriever(emb, 3, 20, 0.5).Retrieve(context.Background(), idx, "Paris museum")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, d := range res.Documents {
		assert.False(t, seen[d.ID.String()], "duplicate %s", d.Content)
		seen[d.ID.String()] = true
	}
}

func TestBuildPrompt(t *testing.T) {
	cb := NewContextBuilder("")
	ctx := cb.BuildContext([]index.ChunkRecord{{Content: "first"}, {Content: "second"}})
	assert.Equal(t, "first\n\nsecond", ctx)

	prompt := cb.BuildPrompt(ctx, "Why?")
	assert.True(t, strings.HasPrefix(prompt, "Use the following pieces of context"))
	assert.Contains(t, prompt, "first\n\nsecond\n\nQuestion: Why?\nHelpful Answer:")
}

func TestBuildPromptCustomTemplate(t *testing.T) {
	cb := NewContextBuilder("Q={question} C={context}")
	assert.Equal(t, "Q=a C=b", cb.BuildPrompt("b", "a"))
}

func TestAnswer(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)
	llm := &fakeLLM{answer: "  Paris.\n"}
	a := NewAnswerer(NewRetriever(emb, 3, 20, 0.5), NewContextBuilder(""), llm, "llama3", nil)

	res, err := a.Answer(context.Background(), idx, "  What is the capital of France?  ")
	require.NoError(t, err)

	assert.Equal(t, "Paris.", res.Answer)
	assert.Equal(t, "What is the capital of France?", res.Question)
	assert.Equal(t, "llama3", res.Model)
	assert.Equal(t, idx.Generation(), res.Generation)
	assert.LessOrEqual(t, len(res.Sources), 3)

	require.Len(t, llm.prompts, 1)
	for _, s := range res.Sources {
		assert.Contains(t, llm.prompts[0], s.Content)
	}
}

func TestAnswerPromptHasNoHistory(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)
	llm := &fakeLLM{answer: "ok"}
	a := NewAnswerer(NewRetriever(emb, 3, 20, 0.5), NewContextBuilder(""), llm, "llama3", nil)

	_, err := a.Answer(context.Background(), idx, "first question about bananas")
	require.NoError(t, err)
	_, err = a.Answer(context.Background(), idx, "second question about Paris")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)
	assert.NotContains(t, llm.prompts[1], "first question")
}

func TestAnswerErrors(t *testing.T) {
	emb := embeddings.NewMockEmbedder(64)
	idx := buildIndex(t, emb, corpus)

	t.Run("empty question", func(t *testing.T) {
		a := NewAnswerer(NewRetriever(emb, 3, 20, 0.5), NewContextBuilder(""), &fakeLLM{}, "llama3", nil)
		_, err := a.Answer(context.Background(), idx, "   ")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("no index", func(t *testing.T) {
		a := NewAnswerer(NewRetriever(emb, 3, 20, 0.5), NewContextBuilder(""), &fakeLLM{}, "llama3", nil)
		_, err := a.Answer(context.Background(), nil, "hello")
		assert.ErrorIs(t, err, ErrNoIndex)
	})

	t.Run("completion failure", func(t *testing.T) {
		llm := &fakeLLM{err: &ollama.CompletionError{Model: "llama3", StatusCode: 500, Err: errors.New("down")}}
		a := NewAnswerer(NewRetriever(emb, 3, 20, 0.5), NewContextBuilder(""), llm, "llama3", nil)
		_, err := a.Answer(context.Background(), idx, "hello")

		var compErr *ollama.CompletionError
		assert.ErrorAs(t, err, &compErr)
	})

	t.Run("embedding failure", func(t *testing.T) {
		a := NewAnswerer(NewRetriever(&failingEmbedder{}, 3, 20, 0.5), NewContextBuilder(""), &fakeLLM{}, "llama3", nil)
		_, err := a.Answer(context.Background(), idx, "hello")

		var embErr *embeddings.EmbeddingError
		assert.ErrorAs(t, err, &embErr)
	})
}
