package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/ragchat/cmd/ragchat/ask"
	chatcmder "github.com/papercomputeco/ragchat/cmd/ragchat/chat"
	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	configcmder "github.com/papercomputeco/ragchat/cmd/ragchat/config"
	healthcmder "github.com/papercomputeco/ragchat/cmd/ragchat/health"
	mcpcmder "github.com/papercomputeco/ragchat/cmd/ragchat/mcp"
	mockbackendcmder "github.com/papercomputeco/ragchat/cmd/ragchat/mockbackend"
	uploadcmder "github.com/papercomputeco/ragchat/cmd/ragchat/upload"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const rootLongDesc string = `ragchat is a client for a CSV retrieval-augmented-generation backend.

Upload a CSV file to the backend, then ask questions about it in plain
language. Answers come back with the rows the backend retrieved as
context. Use 'ragchat chat' for the interactive terminal UI, or the
upload and ask commands from scripts.`

const rootShortDesc string = "Chat with your CSV data through a RAG backend"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ragchat",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cliconfig.AddFlags(cmd)

	cmd.AddCommand(
		chatcmder.NewChatCmd(),
		uploadcmder.NewUploadCmd(),
		askcmder.NewAskCmd(),
		healthcmder.NewHealthCmd(),
		mcpcmder.NewMCPCmd(version),
		mockbackendcmder.NewMockBackendCmd(),
		configcmder.NewConfigCmd(),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
