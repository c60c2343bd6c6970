package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/ragchat/pkg/rag"
	"github.com/papercomputeco/ragchat/widget"
)

type uploadDoneMsg struct {
	resp *rag.UploadResponse
	err  error
}

type askDoneMsg struct {
	question string
	resp     *rag.AskResponse
	err      error
}

func uploadCmd(ctx context.Context, uploader widget.Uploader, path string) tea.Cmd {
	return func() tea.Msg {
		resp, err := widget.Send(ctx, uploader, path)
		return uploadDoneMsg{resp: resp, err: err}
	}
}

func askCmd(ctx context.Context, asker widget.Asker, question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := asker.Ask(ctx, question)
		return askDoneMsg{question: question, resp: resp, err: err}
	}
}
