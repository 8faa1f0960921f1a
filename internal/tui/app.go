// Package tui is the terminal front end for a chat session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dream-ai/pdfchat/internal/documents"
	"github.com/dream-ai/pdfchat/internal/session"
)

// ChatSession is the part of session.Session the UI drives
type ChatSession interface {
	Upload(ctx context.Context, files []documents.UploadedFile) (*session.UploadResult, error)
	Ask(ctx context.Context, question string) (*session.ConversationTurn, error)
	History() []session.ConversationTurn
	Stats() session.Stats
	Reset()
}

// Options configures the UI
type Options struct {
	// Files are uploaded as soon as the program starts.
	Files        []string
	ExcerptChars int
	Timeout      time.Duration
	Models       ModelLister
	ChatModel    string
	EmbedModel   string
}

// App is the root bubbletea model
type App struct {
	session ChatSession
	opts    Options

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	models   *ModelsView

	// Snapshots of session state, taken when no command is running.
	stats session.Stats
	turns []session.ConversationTurn

	showModels  bool
	showSources bool
	busy        bool
	status      string
	errMsg      string
	ready       bool
	width       int
	height      int
}

// NewApp creates the UI over sess
func NewApp(sess ChatSession, opts Options) *App {
	if opts.ExcerptChars <= 0 {
		opts.ExcerptChars = session.DefaultExcerptChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your PDFs, or /upload <file.pdf ...>"
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	a := &App{
		session:     sess,
		opts:        opts,
		input:       ti,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		models:      NewModelsView(opts.Models, opts.ChatModel, opts.EmbedModel),
		showSources: true,
		status:      "Upload PDFs with /upload to get started.",
	}
	a.sync()
	return a
}

// Run starts the program and blocks until the user quits
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

// Init starts the initial upload, if any
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if len(a.opts.Files) > 0 {
		a.busy = true
		a.status = fmt.Sprintf("Processing %d PDF(s)...", len(a.opts.Files))
		cmds = append(cmds, a.spinner.Tick, a.upload(a.opts.Files))
	}
	return tea.Batch(cmds...)
}

// Update handles updates
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return a, tea.Quit
		case "esc":
			if a.showModels {
				a.showModels = false
				return a, nil
			}
			return a, tea.Quit
		case "ctrl+s":
			a.showSources = !a.showSources
			a.refresh()
			return a, nil
		case "enter":
			return a, a.submit()
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}

	case uploadDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			a.status = ""
		} else {
			a.errMsg = ""
			a.status = fmt.Sprintf("Indexed %d chunk(s) from %s.", msg.result.Chunks, strings.Join(msg.result.Files, ", "))
		}
		a.sync()
		a.refresh()
		return a, nil

	case answerMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			a.status = ""
		} else {
			a.errMsg = ""
			a.status = fmt.Sprintf("Answered with %d source(s) in %s.", len(msg.turn.Sources), msg.turn.Elapsed.Round(100*time.Millisecond))
		}
		a.sync()
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case modelsLoadedMsg, modelsErrorMsg:
		var cmd tea.Cmd
		a.models, cmd = a.models.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the app
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := titleStyle.Render("pdfchat") + "  " + renderStatusBar(a.stats)
	var body string
	if a.showModels {
		body = a.models.View()
	} else {
		body = historyBoxStyle.Render(a.viewport.View())
	}

	var line string
	switch {
	case a.busy:
		line = a.spinner.View() + " " + statusStyle.Render(a.status)
	case a.errMsg != "":
		line = errorStyle.Render("Error: " + a.errMsg)
	default:
		line = statusStyle.Render(a.status)
	}

	help := helpStyle.Render("enter: send | ctrl+s: toggle sources | /upload /reset /models | esc: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, inputBoxStyle.Render(a.input.View()), line, help)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	_, hh := historyBoxStyle.GetFrameSize()
	_, ih := inputBoxStyle.GetFrameSize()
	// header, status line and help line
	reserved := 3 + hh + ih + 1
	a.viewport.Width = max(20, width-historyBoxStyle.GetHorizontalFrameSize())
	a.viewport.Height = max(3, height-reserved)
	a.input.Width = max(10, width-ih-4)
	a.models.SetSize(width, height-reserved)
	a.refresh()
}

// sync copies session state. Callers must not be waiting on an upload or answer.
func (a *App) sync() {
	a.stats = a.session.Stats()
	a.turns = a.session.History()
}

func (a *App) refresh() {
	a.viewport.SetContent(renderHistory(a.turns, a.showSources, a.opts.ExcerptChars, a.viewport.Width))
	a.viewport.GotoTop()
}

// submit dispatches the input line as a command or a question
func (a *App) submit() tea.Cmd {
	line := strings.TrimSpace(a.input.Value())
	if line == "" || a.busy {
		return nil
	}
	a.input.Reset()
	a.errMsg = ""

	cmd, args, isCommand := parseCommand(line)
	if !isCommand {
		a.busy = true
		a.status = "Thinking..."
		return tea.Batch(a.spinner.Tick, a.ask(line))
	}
	switch cmd {
	case "":
		a.errMsg = "usage: /upload <file.pdf ...> | /reset | /models | /quit"
		return nil
	case "upload":
		if len(args) == 0 {
			a.errMsg = "usage: /upload <file.pdf> [more.pdf ...]"
			return nil
		}
		a.busy = true
		a.status = fmt.Sprintf("Processing %d PDF(s)...", len(args))
		return tea.Batch(a.spinner.Tick, a.upload(args))
	case "reset":
		a.session.Reset()
		a.sync()
		a.status = "Session cleared."
		a.refresh()
		return nil
	case "models":
		a.showModels = !a.showModels
		if a.showModels {
			return a.models.Init()
		}
		return nil
	case "quit", "exit":
		return tea.Quit
	default:
		a.errMsg = fmt.Sprintf("unknown command /%s", cmd)
		return nil
	}
}

// parseCommand splits "/name arg..." into its parts. isCommand is false for plain text;
// a bare "/" is a command with an empty name.
func parseCommand(line string) (name string, args []string, isCommand bool) {
	if !strings.HasPrefix(line, "/") {
		return "", nil, false
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return "", nil, true
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (a *App) upload(paths []string) tea.Cmd {
	sess := a.session
	timeout := a.opts.Timeout
	return func() tea.Msg {
		files, err := documents.ReadUploads(paths)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := sess.Upload(ctx, files)
		return uploadDoneMsg{result: res, err: err}
	}
}

func (a *App) ask(question string) tea.Cmd {
	sess := a.session
	timeout := a.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		turn, err := sess.Ask(ctx, question)
		return answerMsg{turn: turn, err: err}
	}
}

// uploadDoneMsg signals an upload finished
type uploadDoneMsg struct {
	result *session.UploadResult
	err    error
}

// answerMsg signals a question was answered
type answerMsg struct {
	turn *session.ConversationTurn
	err  error
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
