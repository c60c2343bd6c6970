package uploadcmder

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/pkg/logger"
	"github.com/papercomputeco/ragchat/pkg/watcher"
	"github.com/papercomputeco/ragchat/widget"
)

const uploadLongDesc string = `Upload a CSV file to the RAG backend for indexing.

The file is sent as multipart form data to the backend's /upload
endpoint and the resulting status line is printed. With --watch the
file is uploaded once and then again every time it changes, until
interrupted.

Examples:
  ragchat upload data/capitals.csv
  ragchat upload --url http://10.0.0.5:8000 data/capitals.csv
  ragchat upload --watch data/capitals.csv`

const uploadShortDesc string = "Upload a CSV file to the backend"

type uploadCommander struct {
	watch    bool
	debounce time.Duration
}

func NewUploadCmd() *cobra.Command {
	cmder := &uploadCommander{}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: uploadShortDesc,
		Long:  uploadLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Re-upload the file whenever it changes")
	cmd.Flags().DurationVar(&cmder.debounce, "debounce", watcher.DefaultDebounce, "Quiet period before a change triggers an upload")

	return cmd
}

func (c *uploadCommander) run(ctx context.Context, cmd *cobra.Command, path string) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := cliconfig.NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx = logger.WithAction(ctx, log, "upload")
	u := widget.NewUpload(cliconfig.NewClient(cfg, log))
	u.SelectFile(path)

	if !c.watch {
		return c.uploadOnce(ctx, u, cmd.OutOrStdout())
	}

	// Failures while watching are printed and the watch goes on.
	_ = c.uploadOnce(ctx, u, cmd.OutOrStdout())

	log.Info("watching for changes", zap.String("file", path))
	err = watcher.Watch(ctx, path, c.debounce, log, func() {
		_ = c.uploadOnce(ctx, u, cmd.OutOrStdout())
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *uploadCommander) uploadOnce(ctx context.Context, u *widget.Upload, out io.Writer) error {
	status := u.Upload(ctx)
	fmt.Fprintln(out, status)

	if strings.HasPrefix(status, "Error:") {
		return fmt.Errorf("upload failed: %s", strings.TrimPrefix(status, "Error: "))
	}
	return nil
}
