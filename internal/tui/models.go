package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dream-ai/pdfchat/internal/ollama"
)

// ModelLister lists the models available on the Ollama server
type ModelLister interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// ModelsView lists local Ollama models and marks the configured ones
type ModelsView struct {
	lister     ModelLister
	models     []ollama.ModelInfo
	chatModel  string
	embedModel string
	width      int
	height     int
	loading    bool
	errorMsg   string
}

// NewModelsView creates a new models view
func NewModelsView(lister ModelLister, chatModel, embedModel string) *ModelsView {
	return &ModelsView{
		lister:     lister,
		chatModel:  chatModel,
		embedModel: embedModel,
		width:      80,
		height:     24,
	}
}

// SetSize sets the render area
func (mv *ModelsView) SetSize(width, height int) {
	mv.width = width
	mv.height = height
}

// Init starts loading the model list
func (mv *ModelsView) Init() tea.Cmd {
	if mv.lister == nil {
		mv.errorMsg = "no Ollama client configured"
		return nil
	}
	mv.loading = true
	mv.errorMsg = ""
	return mv.loadModels
}

// Update handles updates
func (mv *ModelsView) Update(msg tea.Msg) (*ModelsView, tea.Cmd) {
	switch msg := msg.(type) {
	case modelsLoadedMsg:
		mv.models = msg.models
		mv.loading = false
	case modelsErrorMsg:
		mv.errorMsg = msg.err.Error()
		mv.loading = false
	}
	return mv, nil
}

// View renders the models view
func (mv *ModelsView) View() string {
	var lines []string

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("Ollama Models")

	lines = append(lines, title)
	lines = append(lines, "")

	if mv.loading {
		lines = append(lines, "Loading models...")
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if mv.errorMsg != "" {
		lines = append(lines, errorStyle.Render("Error: "+mv.errorMsg))
		lines = append(lines, "")
	}

	currentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)
	lines = append(lines, currentStyle.Render(fmt.Sprintf("Chat: %s  Embeddings: %s", mv.chatModel, mv.embedModel)))
	lines = append(lines, "")

	if len(mv.models) == 0 {
		lines = append(lines, "No models found. Make sure Ollama is running.")
	}
	for _, model := range mv.models {
		style := lipgloss.NewStyle()
		var tags string
		if matchesModel(model.Name, mv.chatModel) {
			tags += " [chat]"
		}
		if matchesModel(model.Name, mv.embedModel) {
			tags += " [embed]"
		}
		if tags != "" {
			style = currentStyle
		}
		sizeMB := float64(model.Size) / (1024 * 1024)
		lines = append(lines, style.Render(fmt.Sprintf("%s %.2f MB%s", model.Name, sizeMB, tags)))
	}

	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("esc or /models: back"))

	return lipgloss.NewStyle().MaxHeight(max(3, mv.height)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// loadModels loads available models
func (mv *ModelsView) loadModels() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	models, err := mv.lister.ListModels(ctx)
	if err != nil {
		return modelsErrorMsg{err: err}
	}
	return modelsLoadedMsg{models: models}
}

// matchesModel compares names, treating a missing tag as ":latest"
func matchesModel(have, want string) bool {
	return want != "" && (have == want || have == want+":latest")
}

// modelsLoadedMsg signals models have been loaded
type modelsLoadedMsg struct {
	models []ollama.ModelInfo
}

// modelsErrorMsg signals the model list could not be loaded
type modelsErrorMsg struct {
	err error
}
