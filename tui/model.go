// Package tui is the terminal front end: a Bubble Tea program that plays
// the root view, with an upload row, a question input and the running
// conversation with collapsible context panels.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/widget"
)

const (
	title        = "🧠 CSV RAG Chatbot"
	headerHeight = 7
	footerHeight = 1
	defaultWidth = 80
)

type focus int

const (
	focusQuestion focus = iota
	focusPicker
)

// Options configures a Model.
type Options struct {
	// BaseURL is shown in the header.
	BaseURL string

	// Markdown renders answers with glamour.
	Markdown bool

	// StartDir is where the file picker opens. Empty means the working directory.
	StartDir string

	Logger *zap.Logger
}

// Model is the Bubble Tea model of the chat client.
type Model struct {
	ctx     context.Context
	backend widget.Backend
	root    *widget.Root
	logger  *zap.Logger
	opts    Options

	renderer *Renderer
	input    textinput.Model
	picker   filepicker.Model
	viewport viewport.Model
	spinner  spinner.Model

	focus     focus
	expanded  map[int]bool
	selected  int
	uploading int
	width     int
	height    int
}

// NewModel builds the model. ctx bounds every request the UI issues.
func NewModel(ctx context.Context, backend widget.Backend, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	in := textinput.New()
	in.Placeholder = "Ask a question..."
	in.Prompt = "› "
	in.CharLimit = 0
	in.Width = defaultWidth - 20
	in.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv"}
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		backend:  backend,
		root:     widget.NewRoot(backend),
		logger:   opts.Logger,
		opts:     opts,
		renderer: NewRenderer(opts.Markdown, defaultWidth),
		input:    in,
		picker:   fp,
		viewport: viewport.New(defaultWidth, 20),
		spinner:  sp,
		expanded: map[int]bool{},
		selected: -1,
		width:    defaultWidth,
	}
}

// Root exposes the widget state behind the UI.
func (m Model) Root() *widget.Root {
	return m.root
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) busy() bool {
	return m.uploading > 0 || m.root.Chat().Loading()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-20, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.renderer.SetWidth(msg.Width)
		m.refresh(false)

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusPicker {
			return m.updatePicker(msg)
		}
		return m.updateKeys(msg)

	case uploadDoneMsg:
		m.uploading = max(m.uploading-1, 0)
		status := m.root.Upload().Finish(msg.resp, msg.err)
		m.logger.Info("upload finished", zap.String("status", status))
		return m, nil

	case askDoneMsg:
		chat := m.root.Chat()
		chat.Finish(msg.question, msg.resp, msg.err)
		if msg.err != nil {
			m.logger.Warn("ask failed", zap.Error(msg.err))
			return m, nil
		}
		m.input.SetValue(chat.Question())
		m.selected = m.root.Conversation().Len() - 1
		m.refresh(true)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks, directory listings and other component messages.
	var inputCmd, pickerCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.picker, pickerCmd = m.picker.Update(msg)
	return m, tea.Batch(inputCmd, pickerCmd)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "ctrl+o":
		m.focus = focusPicker
		m.input.Blur()
		return m, m.picker.Init()

	case "ctrl+u":
		path, ok := m.root.Upload().Begin()
		if !ok {
			return m, nil
		}
		m.uploading++
		m.logger.Info("uploading", zap.String("file", path))
		return m, tea.Batch(uploadCmd(m.ctx, m.backend, path), m.spinner.Tick)

	case "enter":
		chat := m.root.Chat()
		chat.SetQuestion(m.input.Value())
		question, ok := chat.Begin()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(askCmd(m.ctx, m.backend, question), m.spinner.Tick)

	case "ctrl+p":
		if m.selected > 0 {
			m.selected--
			m.refresh(false)
		}
		return m, nil

	case "ctrl+n":
		if m.selected < m.root.Conversation().Len()-1 {
			m.selected++
			m.refresh(false)
		}
		return m, nil

	case "ctrl+t":
		if m.selected >= 0 {
			m.expanded[m.selected] = !m.expanded[m.selected]
			m.refresh(false)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.root.Chat().SetQuestion(m.input.Value())
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.focus = focusQuestion
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.root.Upload().SelectFile(path)
		m.focus = focusQuestion
		return m, tea.Batch(cmd, m.input.Focus())
	}

	return m, cmd
}

// refresh re-renders the conversation into the viewport.
func (m *Model) refresh(bottom bool) {
	turns := m.root.Conversation().Turns()
	m.viewport.SetContent(m.renderer.Conversation(turns, m.expanded, m.selected))
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render(title)
	if m.opts.BaseURL != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", dimStyle.Render(m.opts.BaseURL))
	}
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(m.uploadRow())
	b.WriteString("\n")
	b.WriteString(m.truncate(m.statusLine()))
	b.WriteString("\n\n")

	b.WriteString(m.questionRow())
	b.WriteString("\n")
	if errText := m.root.Chat().Err(); errText != "" {
		b.WriteString(m.truncate(errorStyle.Render(errText)))
	}
	b.WriteString("\n")

	if m.focus == focusPicker {
		b.WriteString(dimStyle.Render("Choose a CSV file (enter to select, esc to cancel)"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.truncate(dimStyle.Render("enter ask · ctrl+o choose file · ctrl+u upload · ctrl+p/n select · ctrl+t context · pgup/pgdn scroll · esc quit")))

	return b.String()
}

func (m Model) uploadRow() string {
	file := m.root.Upload().File()
	name := dimStyle.Render("no file selected")
	if file != "" {
		name = filepath.Base(file)
	}

	row := fmt.Sprintf("%s %s", labelStyle.Render("File:"), name)
	if m.uploading > 0 {
		row += " " + m.spinner.View()
	}
	return row
}

func (m Model) statusLine() string {
	status := m.root.Upload().Status()
	switch {
	case strings.HasPrefix(status, "Error:"):
		return errorStyle.Render(status)
	case strings.HasPrefix(status, "Success:"):
		return successStyle.Render(status)
	default:
		return statusStyle.Render(status)
	}
}

func (m Model) questionRow() string {
	chat := m.root.Chat()
	button := buttonStyle.Render(chat.ButtonLabel())
	if chat.Loading() {
		button = m.spinner.View() + " " + busyStyle.Render(chat.ButtonLabel())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", button)
}

func (m Model) truncate(s string) string {
	return ansi.Truncate(s, m.width, "…")
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
