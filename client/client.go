// Package client talks to the CSV RAG backend: it uploads CSV files for
// indexing and asks questions against them.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	pkghttp "github.com/papercomputeco/ragchat/pkg/http"
	"github.com/papercomputeco/ragchat/pkg/logger"
	"github.com/papercomputeco/ragchat/pkg/rag"
)

const (
	uploadEndpoint = "/upload"
	askEndpoint    = "/ask"
	healthEndpoint = "/health"
	bannerEndpoint = "/"
)

// Client is a RAG backend client. It is safe for concurrent use.
type Client struct {
	config    Config
	connector *pkghttp.Connector
	logger    *zap.Logger
}

// New creates a new Client.
func New(config Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	opts := []pkghttp.HttpOpts{
		pkghttp.WithRequestTimeout(config.RequestTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthToken(config.Token),
		pkghttp.WithRequestID(),
	}
	if config.ConnectTimeout > 0 {
		opts = append(opts, pkghttp.WithConnClientTimeout(config.ConnectTimeout))
	}

	return &Client{
		config: config,
		connector: pkghttp.NewConnector(&pkghttp.ConnectorConfig{
			BaseURL: config.BaseURL,
			Logger:  log,
		}, opts...),
		logger: log,
	}
}

// BaseURL returns the backend base URL this client targets.
func (c *Client) BaseURL() string {
	return c.connector.BaseURL()
}

// Upload sends a CSV payload to the backend for indexing.
// POST /upload with multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*rag.UploadResponse, error) {
	ctx = logger.WithAction(ctx, c.logger, "upload")
	ctxzap.Info(ctx, "uploading CSV", zap.String("file", filename))

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile(rag.UploadFormField, filepath.Base(filename))
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := io.Copy(part, content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp rag.UploadResponse
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, uploadEndpoint, prepareBody, &resp); err != nil {
		ctxzap.Error(ctx, "upload failed", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "CSV indexed", zap.Int("chunks_indexed", resp.ChunksIndexed))
	return &resp, nil
}

// Ask sends a question to the backend and returns its answer together with
// the retrieved context snippets.
// POST /ask with multipart field "question".
func (c *Client) Ask(ctx context.Context, question string) (*rag.AskResponse, error) {
	ctx = logger.WithAction(ctx, c.logger, "ask")
	ctxzap.Debug(ctx, "asking question", zap.Int("question_length", len(question)))

	prepareBody := func(writer *multipart.Writer) error {
		return writer.WriteField(rag.QuestionFormField, question)
	}

	var resp rag.AskResponse
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, askEndpoint, prepareBody, &resp); err != nil {
		ctxzap.Error(ctx, "ask failed", zap.Error(err))
		return nil, err
	}

	ctxzap.Debug(ctx, "answer received",
		zap.Int("answer_length", len(resp.Answer)),
		zap.Int("context_count", len(resp.Context)),
	)
	return &resp, nil
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (*rag.HealthResponse, error) {
	var resp rag.HealthResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, healthEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Banner queries GET /, the backend's greeting.
func (c *Client) Banner(ctx context.Context) (*rag.BannerResponse, error) {
	var resp rag.BannerResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, bannerEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitHealthy polls /health until it reports "ok", giving up after
// attempts tries spaced by delay (with backoff).
func (c *Client) WaitHealthy(ctx context.Context, attempts uint, delay time.Duration) (*rag.HealthResponse, error) {
	var last *rag.HealthResponse

	err := retry.Do(
		func() error {
			resp, err := c.Health(ctx)
			if err != nil {
				return err
			}
			last = resp
			if resp.Status != "ok" {
				return fmt.Errorf("backend reported status %q", resp.Status)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.MaxDelay(8*delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("backend not ready", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return last, fmt.Errorf("backend not healthy at %s: %w", c.BaseURL(), err)
	}

	return last, nil
}

// ErrorMessage extracts the user-facing text of a failed request: the
// backend's structured "message" field when the error response carries a
// non-empty one, otherwise the error's own text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		var body rag.ErrorResponse
		if json.Unmarshal(httpErr.Body, &body) == nil && body.Message != "" {
			return body.Message
		}
	}

	return err.Error()
}
