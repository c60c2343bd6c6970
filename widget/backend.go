// Package widget holds the UI-independent state of the chat client: the
// root view owning the conversation, the upload widget and the chat
// widget. Frontends (the TUI, the CLI, the MCP server) drive these and
// render their state.
package widget

import (
	"context"
	"io"

	"github.com/papercomputeco/ragchat/pkg/rag"
)

// Uploader sends a CSV payload to the backend.
type Uploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*rag.UploadResponse, error)
}

// Asker sends a question to the backend.
type Asker interface {
	Ask(ctx context.Context, question string) (*rag.AskResponse, error)
}

// Backend is everything the root view needs from the backend.
type Backend interface {
	Uploader
	Asker
}
