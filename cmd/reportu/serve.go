package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report intake to agents over MCP",
	Long: `Run an MCP server (streamable HTTP, endpoint /mcp) exposing the
report_submit, report_list, report_get and report_status tools.

Submissions go through the same checks as the terminal wizard.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "127.0.0.1:8787", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker, store, err := openIntake(ctx, cfg, cfg.SeedDemo)
	if err != nil {
		return err
	}
	defer func() {
		if err := broker.Close(); err != nil {
			logger.Warn("Failed to close report log: %v", err)
		}
	}()

	srv := mcpserver.New(store, mcpserver.Options{
		StagingDir:         cfg.StagingDir(),
		MaxAttachments:     cfg.MaxAttachments,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		SubmitTimeout:      cfg.SubmitTimeout,
	})
	if _, err := srv.Start(ctx, serveFlags.addr); err != nil {
		return err
	}
	defer func() { _ = srv.Stop() }()

	fmt.Fprintf(cmd.OutOrStdout(), "MCP intake listening at %s\nPress Ctrl+C to stop.\n", srv.URL())
	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	return nil
}
