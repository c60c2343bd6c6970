package chatcmder

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/tui"
)

const chatLongDesc string = `Open the interactive chat.

Pick a CSV file, upload it, then ask questions about it. Every answer
is listed under its question with the retrieved context folded away;
select a turn and toggle its context to read the rows the answer was
based on.

Logs go to --log-file (or log_file in the config) since the terminal
belongs to the UI; without one nothing is logged.

Keys:
  ctrl+o      choose a CSV file
  ctrl+u      upload the chosen file
  enter       ask the typed question
  ctrl+p/n    select the previous/next turn
  ctrl+t      show or hide the selected turn's context
  esc         quit`

const chatShortDesc string = "Open the interactive chat"

type chatCommander struct {
	startDir string
	plain    bool
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.startDir, "dir", "d", "", "Directory the file picker starts in")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Render answers as plain text instead of Markdown")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("chat needs an interactive terminal; use 'ragchat upload' and 'ragchat ask' in scripts")
	}

	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	// No stderr fallback: the UI owns the terminal.
	log, closeLog, err := cliconfig.NewLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	if cliconfig.NoColor(cmd) {
		lipgloss.SetColorProfile(cliconfig.ColorProfile(cmd, os.Stdout))
	}

	log.Info("starting chat", zap.String("backend", cfg.BaseURL))

	m := tui.NewModel(ctx, cliconfig.NewClient(cfg, log), tui.Options{
		BaseURL:  cfg.BaseURL,
		Markdown: cfg.Markdown && !c.plain,
		StartDir: c.startDir,
		Logger:   log,
	})

	return tui.Run(ctx, m)
}
