package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/ragchat/pkg/conversation"
)

const (
	contextCollapsed = "▸ Context"
	contextExpanded  = "▾ Context"
	minWidth         = 20
)

// Renderer turns conversation turns into terminal text. Answers go through
// glamour when Markdown is enabled; everything else is plain text.
type Renderer struct {
	markdown bool
	style    string
	width    int
	md       *glamour.TermRenderer
}

// NewRenderer builds a renderer for the given wrap width. The glamour
// style is chosen up front from the terminal's color profile and
// background, since querying the terminal later would race the UI.
func NewRenderer(markdown bool, width int) *Renderer {
	style := "dark"
	switch {
	case lipgloss.ColorProfile() == termenv.Ascii:
		style = "notty"
	case !lipgloss.HasDarkBackground():
		style = "light"
	}

	r := &Renderer{markdown: markdown, style: style}
	r.SetWidth(width)
	return r
}

// NewPlainRenderer renders without Markdown or styling.
func NewPlainRenderer(width int) *Renderer {
	r := &Renderer{style: "notty"}
	r.SetWidth(width)
	return r
}

// SetWidth changes the wrap width, rebuilding the Markdown renderer.
func (r *Renderer) SetWidth(width int) {
	width = max(width, minWidth)
	if width == r.width && (r.md != nil || !r.markdown) {
		return
	}
	r.width = width

	if !r.markdown {
		return
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		// Fall back to plain answers.
		r.md = nil
		return
	}
	r.md = md
}

// Answer renders an answer body.
func (r *Renderer) Answer(answer string) string {
	if r.md == nil {
		return ansi.Wordwrap(answer, r.width-4, "")
	}

	out, err := r.md.Render(answer)
	if err != nil {
		return answer
	}
	return strings.Trim(out, "\n")
}

// ContextPanel renders the disclosure header and, when expanded, the
// newline-joined context snippets under it.
func (r *Renderer) ContextPanel(t conversation.Turn, expanded bool) string {
	if !expanded {
		return dimStyle.Render(contextCollapsed)
	}

	body := t.ContextText()
	if body == "" {
		body = "(no context returned)"
	}
	body = ansi.Wordwrap(body, r.width-6, "")

	return dimStyle.Render(contextExpanded) + "\n" + contextStyle.Render(body)
}

// Turn renders one question/answer/context block.
func (r *Renderer) Turn(t conversation.Turn, expanded bool) string {
	return r.QA(t) + "\n" + r.ContextPanel(t, expanded)
}

// QA renders the question and answer of a turn without its context.
func (r *Renderer) QA(t conversation.Turn) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Q:"))
	b.WriteString(" ")
	b.WriteString(t.Question)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("A:"))

	answer := r.Answer(t.Answer)
	if strings.Contains(answer, "\n") {
		b.WriteString("\n")
	} else {
		b.WriteString(" ")
	}
	b.WriteString(answer)

	return b.String()
}

// Conversation renders all turns, oldest first, framing the selected one.
func (r *Renderer) Conversation(turns []conversation.Turn, expanded map[int]bool, selected int) string {
	if len(turns) == 0 {
		return dimStyle.Render("No questions yet. Upload a CSV, then ask something about it.")
	}

	blocks := make([]string, len(turns))
	for i, t := range turns {
		style := turnStyle
		if i == selected {
			style = selectedStyle
		}
		blocks[i] = style.Width(r.width - 2).Render(r.Turn(t, expanded[i]))
	}
	return strings.Join(blocks, "\n")
}
