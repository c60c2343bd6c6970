// Package mockbackend is a stand-in for the CSV RAG backend that speaks the
// same HTTP contract. It indexes nothing: uploads are split into one chunk
// per CSV data row and questions get a canned answer with the first rows
// as context.
package mockbackend

import (
	"bytes"
	"encoding/csv"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/pkg/rag"
)

// Server is the mock backend.
type Server struct {
	config Config
	logger *zap.Logger
	server *fiber.App

	mu     sync.RWMutex
	chunks []string
}

// New creates a new Server with its routes registered.
func New(config Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Answer == "" {
		config.Answer = DefaultAnswer
	}
	if config.ContextRows <= 0 {
		config.ContextRows = DefaultContextRows
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		server: app,
	}

	app.Get("/", s.handleBanner)
	app.Get("/health", s.handleHealth)
	app.Post("/upload", s.handleUpload)
	app.Post("/ask", s.handleAsk)

	return s, nil
}

// App exposes the underlying fiber app, e.g. for adapting it to net/http.
func (s *Server) App() *fiber.App {
	return s.server
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting mock backend", zap.String("listen", s.config.ListenAddr))
	return s.server.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting mock backend", zap.String("listen", ln.Addr().String()))
	return s.server.Listener(ln)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// ChunkCount returns the number of chunks indexed so far.
func (s *Server) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *Server) handleBanner(c *fiber.Ctx) error {
	return c.JSON(rag.BannerResponse{Message: bannerMessage})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(rag.HealthResponse{
		Status:           "ok",
		CollectionsCount: 1,
		CollectionItems:  s.ChunkCount(),
	})
}

// handleUpload mirrors the real backend's validation: a missing or empty
// file and a header-only CSV are 400s with a FastAPI "detail"; unreadable
// CSV is a 500 with a structured "message".
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile(rag.UploadFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(rag.ErrorResponse{Detail: "File not found"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(rag.ErrorResponse{Status: "error", Message: err.Error()})
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(rag.ErrorResponse{Status: "error", Message: err.Error()})
	}
	if len(contents) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(rag.ErrorResponse{Detail: "File is empty"})
	}

	rows, err := splitRows(contents)
	if err != nil {
		s.logger.Warn("failed to read CSV", zap.String("file", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(rag.ErrorResponse{Status: "error", Message: err.Error()})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(rag.ErrorResponse{Detail: "DataFrame is empty"})
	}

	s.mu.Lock()
	s.chunks = append(s.chunks, rows...)
	s.mu.Unlock()

	s.logger.Info("indexed upload",
		zap.String("file", fh.Filename),
		zap.Int("chunks", len(rows)),
	)

	return c.JSON(rag.UploadResponse{Status: "success", ChunksIndexed: len(rows)})
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	question := c.FormValue(rag.QuestionFormField)
	if strings.TrimSpace(question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(rag.ErrorResponse{Detail: "Question cannot be empty"})
	}

	s.logger.Debug("question received", zap.String("question", question))

	s.mu.RLock()
	n := min(len(s.chunks), s.config.ContextRows)
	context := make([]string, n)
	copy(context, s.chunks[:n])
	s.mu.RUnlock()

	if n == 0 {
		return c.JSON(rag.AskResponse{Answer: NoMatchAnswer, Context: []string{}})
	}

	return c.JSON(rag.AskResponse{Answer: s.config.Answer, Context: context})
}

// splitRows turns CSV data rows (header excluded) into " | "-joined chunks.
func splitRows(contents []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(contents))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, strings.Join(rec, " | "))
	}
	return rows, nil
}
