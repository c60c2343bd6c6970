package mockbackendcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/mockbackend"
)

const mockBackendLongDesc string = `Run a stand-in for the CSV RAG backend.

Speaks the backend's HTTP contract (/, /health, /upload, /ask) without
any retrieval or model: uploads are split into one chunk per CSV row,
and every question is answered with a fixed reply plus the first rows
as context. Useful for trying the client and for tests.

Examples:
  ragchat mock-backend
  ragchat mock-backend --listen :9000 --answer "42"`

const mockBackendShortDesc string = "Run a mock RAG backend"

type mockBackendCommander struct {
	listen      string
	answer      string
	contextRows int
}

func NewMockBackendCmd() *cobra.Command {
	cmder := &mockBackendCommander{}

	cmd := &cobra.Command{
		Use:   "mock-backend",
		Short: mockBackendShortDesc,
		Long:  mockBackendLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8000", "Address to listen on")
	cmd.Flags().StringVar(&cmder.answer, "answer", "", "Answer returned for every question")
	cmd.Flags().IntVar(&cmder.contextRows, "context-rows", mockbackend.DefaultContextRows, "Rows returned as context")

	return cmd
}

func (c *mockBackendCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := cliconfig.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := mockbackend.New(mockbackend.Config{
		ListenAddr:  c.listen,
		Answer:      c.answer,
		ContextRows: c.contextRows,
	}, log)
	if err != nil {
		return fmt.Errorf("could not create mock backend: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	return s.Run()
}
