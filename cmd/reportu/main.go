package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █▀▀ █▀█ █▀█ █▀█ ▀█▀ █ █"
	logoText2 = "█▀▄ ██▄ █▀▀ █▄█ █▀▄  █  █▄█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reportu",
	Short: "Report incidents to the authorities in Malaysia and Singapore",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

reportu walks you through filing an incident report: pick what happened,
describe it, say where, attach photos or videos, review and submit.
Reports are kept in an embedded NATS JetStream log, and the home screen
shows recent activity and cases the authorities have resolved.

The same intake is available to agents over MCP with 'reportu serve'.`

	rootCmd.PersistentFlags().StringVar(&globalFlags.dataDir, "data-dir", "", "Data directory for the report log and staging (default: .reportu)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
}
