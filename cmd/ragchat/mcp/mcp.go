package mcpcmder

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/mcpserver"
)

const mcpLongDesc string = `Serve the chat operations as Model Context Protocol tools over stdio.

Tools:
  upload_csv  upload a local CSV file to the backend
  ask         ask a question, returning the answer and its context
  history     list the turns asked through this server

Logs go to stderr (or --log-file); stdout carries the protocol.

Example client configuration:
  {"command": "ragchat", "args": ["mcp", "--url", "http://localhost:8000"]}`

const mcpShortDesc string = "Serve upload and ask as MCP tools"

type mcpCommander struct {
	version string
}

func NewMCPCmd(version string) *cobra.Command {
	cmder := &mcpCommander{version: version}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	return cmd
}

func (c *mcpCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := cliconfig.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	s := mcpserver.New(mcpserver.Config{Version: c.version}, cliconfig.NewClient(cfg, log), log)
	return s.Run(ctx)
}
