// Package mcpserver exposes the upload and ask operations as MCP tools so
// agents can drive a RAG backend over stdio.
package mcpserver

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/pkg/conversation"
	"github.com/papercomputeco/ragchat/pkg/logger"
	"github.com/papercomputeco/ragchat/widget"
)

const (
	serverName = "ragchat"

	toolUpload  = "upload_csv"
	toolAsk     = "ask"
	toolHistory = "history"
)

// Config is the MCP server configuration.
type Config struct {
	// Version reported to clients during initialization.
	Version string
}

// Server is an MCP server backed by a RAG backend. Every tool call is an
// independent round trip; completed turns accumulate in one conversation.
type Server struct {
	backend      widget.Backend
	conversation *conversation.Conversation
	logger       *zap.Logger
	mcp          *mcp.Server
}

type UploadInput struct {
	Path string `json:"path" jsonschema:"path to a local CSV file"`
}

type UploadOutput struct {
	Status string `json:"status"`
}

type AskInput struct {
	Question string `json:"question" jsonschema:"natural-language question about the uploaded data"`
}

type AskOutput struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context"`
}

type HistoryInput struct{}

type HistoryOutput struct {
	Turns []conversation.Turn `json:"turns"`
}

// New creates a server. backend is shared by all sessions.
func New(config Config, backend widget.Backend, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		backend:      backend,
		conversation: conversation.New(),
		logger:       log,
		mcp:          mcp.NewServer(&mcp.Implementation{Name: serverName, Version: config.Version}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolUpload,
		Description: "Upload a CSV file to the RAG backend for indexing. Returns the upload status line.",
	}, s.handleUpload)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolAsk,
		Description: "Ask a question about the uploaded CSV data. Returns the answer and the retrieved context rows.",
	}, s.handleAsk)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolHistory,
		Description: "List the question/answer turns asked through this server, oldest first.",
	}, s.handleHistory)

	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Conversation returns the turns completed so far.
func (s *Server) Conversation() *conversation.Conversation {
	return s.conversation
}

// Run serves a single client over stdin/stdout until ctx is done or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", zap.String("transport", "stdio"))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleUpload(ctx context.Context, _ *mcp.CallToolRequest, in UploadInput) (*mcp.CallToolResult, UploadOutput, error) {
	ctx = logger.WithAction(ctx, s.logger, toolUpload)

	u := widget.NewUpload(s.backend)
	u.SelectFile(in.Path)

	path, ok := u.Begin()
	if !ok {
		return errorResult("Error: no file selected"), UploadOutput{}, nil
	}

	resp, err := widget.Send(ctx, s.backend, path)
	status := u.Finish(resp, err)
	ctxzap.Info(ctx, "upload finished", zap.String("file", path), zap.String("status", status))

	if err != nil {
		return errorResult(status), UploadOutput{}, nil
	}
	return textResult(status), UploadOutput{Status: status}, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	ctx = logger.WithAction(ctx, s.logger, toolAsk)

	var turn conversation.Turn
	chat := widget.NewChat(s.backend, func(question, answer string, context []string) {
		turn = s.conversation.Append(question, answer, context)
	})
	chat.SetQuestion(in.Question)

	if !chat.Ask(ctx) {
		return errorResult("Error: question must not be empty"), AskOutput{}, nil
	}
	if msg := chat.Err(); msg != "" {
		ctxzap.Warn(ctx, "ask failed", zap.String("error", msg))
		return errorResult(msg), AskOutput{}, nil
	}

	ctxzap.Info(ctx, "ask finished", zap.Int("context_rows", len(turn.Context)))

	out := AskOutput{Answer: turn.Answer, Context: turn.Context}
	if out.Context == nil {
		out.Context = []string{}
	}
	return textResult(turn.Answer), out, nil
}

func (s *Server) handleHistory(_ context.Context, _ *mcp.CallToolRequest, _ HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	turns := s.conversation.Turns()
	return textResult(formatTurns(turns)), HistoryOutput{Turns: turns}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}
