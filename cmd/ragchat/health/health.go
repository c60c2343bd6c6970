package healthcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/pkg/logger"
	"github.com/papercomputeco/ragchat/pkg/rag"
)

const healthLongDesc string = `Check that the RAG backend is up.

Queries the backend's /health endpoint and prints the number of indexed
items. With --wait the check is retried until the backend answers or
the attempts run out, which is handy in scripts that start the backend
and the client together.

Examples:
  ragchat health
  ragchat health --wait --attempts 20 --delay 500ms`

const healthShortDesc string = "Check the backend's health"

type healthCommander struct {
	wait     bool
	attempts uint
	delay    time.Duration
	json     bool
}

func NewHealthCmd() *cobra.Command {
	cmder := &healthCommander{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: healthShortDesc,
		Long:  healthLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.wait, "wait", false, "Retry until the backend is healthy")
	cmd.Flags().UintVar(&cmder.attempts, "attempts", 10, "Attempts when waiting")
	cmd.Flags().DurationVar(&cmder.delay, "delay", time.Second, "Delay between attempts when waiting")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print the health response as JSON")

	return cmd
}

func (c *healthCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := cliconfig.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx = logger.WithAction(ctx, log, "health")
	cl := cliconfig.NewClient(cfg, log)

	var health *rag.HealthResponse
	if c.wait {
		health, err = cl.WaitHealthy(ctx, c.attempts, c.delay)
	} else {
		health, err = cl.Health(ctx)
	}
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if c.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(health)
	}

	fmt.Fprintf(out, "Backend %s is %s (%d collections, %d indexed items)\n",
		cl.BaseURL(), health.Status, health.CollectionsCount, health.CollectionItems)
	return nil
}
