package askcmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/pkg/conversation"
	"github.com/papercomputeco/ragchat/pkg/logger"
	"github.com/papercomputeco/ragchat/tui"
	"github.com/papercomputeco/ragchat/widget"
)

const askLongDesc string = `Ask the RAG backend a question about the uploaded CSV data.

The question is sent to the backend's /ask endpoint and the answer is
printed together with the context rows the backend retrieved for it.
Answers are rendered as Markdown when writing to a terminal.

Examples:
  ragchat ask "Which city is the capital of France?"
  ragchat ask --no-context how many rows mention Paris
  ragchat ask --json "average population by country"`

const askShortDesc string = "Ask a question about the uploaded data"

const defaultWidth = 80

type askCommander struct {
	json      bool
	noContext bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print the turn as JSON")
	cmd.Flags().BoolVar(&cmder.noContext, "no-context", false, "Do not print the retrieved context")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, question string) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := cliconfig.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx = logger.WithAction(ctx, log, "ask")
	root := widget.NewRoot(cliconfig.NewClient(cfg, log))
	chat := root.Chat()
	chat.SetQuestion(question)

	if !chat.Ask(ctx) {
		return errors.New("question must not be empty")
	}
	if msg := chat.Err(); msg != "" {
		return errors.New(strings.TrimPrefix(msg, "Error: "))
	}

	turn, _ := root.Conversation().At(0)
	out := cmd.OutOrStdout()

	if c.json {
		return c.printJSON(out, turn)
	}

	tty, width := terminal(out)
	markdown := cfg.Markdown && tty && !cliconfig.NoColor(cmd)
	lipgloss.SetColorProfile(cliconfig.ColorProfile(cmd, out))

	r := tui.NewPlainRenderer(width)
	if markdown {
		r = tui.NewRenderer(true, width)
	}

	if c.noContext {
		fmt.Fprintln(out, r.QA(turn))
	} else {
		fmt.Fprintln(out, r.Turn(turn, true))
	}
	return nil
}

func (c *askCommander) printJSON(out io.Writer, turn conversation.Turn) error {
	switch {
	case c.noContext:
		turn.Context = nil
	case turn.Context == nil:
		turn.Context = []string{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(turn)
}

// terminal reports whether out is a terminal and its width.
func terminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, defaultWidth
	}

	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return true, defaultWidth
	}
	return true, w
}
