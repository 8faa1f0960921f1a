package rag

import (
	"strings"

	"github.com/dream-ai/pdfchat/internal/index"
)

// ContextBuilder stuffs retrieved documents and the question into one prompt
type ContextBuilder struct {
	template string
}

// DefaultPromptTemplate has {context} and {question} placeholders
const DefaultPromptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Helpful Answer:`

// NewContextBuilder creates a new context builder. An empty template means DefaultPromptTemplate.
func NewContextBuilder(template string) *ContextBuilder {
	if template == "" {
		template = DefaultPromptTemplate
	}
	return &ContextBuilder{template: template}
}

// BuildContext joins the document texts with blank lines, in retrieval order
func (cb *ContextBuilder) BuildContext(docs []index.ChunkRecord) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Content)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt creates a complete prompt with context and user question
func (cb *ContextBuilder) BuildPrompt(context, question string) string {
	r := strings.NewReplacer("{context}", context, "{question}", question)
	return r.Replace(cb.template)
}
