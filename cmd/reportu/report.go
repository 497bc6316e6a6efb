package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/media"
	"github.com/reportu/reportu/internal/report"
	"github.com/reportu/reportu/internal/tui"
	"github.com/reportu/reportu/internal/tui/wizard"
	"github.com/spf13/cobra"
)

// offlineDelay mimics a network round trip for the fabricated submitter.
const offlineDelay = 2 * time.Second

var reportFlags struct {
	offline  bool
	mediaDir string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "File an incident report",
	Long: `Open the home screen and file incident reports.

Reports go to the embedded JetStream intake. With --offline nothing is
stored: submissions wait briefly and always get reference REP-123456.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportFlags.offline, "offline", false, "Use the fabricated submitter instead of the report log")
	reportCmd.Flags().StringVar(&reportFlags.mediaDir, "media-dir", "", "Directory the evidence picker opens in (default: current directory)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = reportFlags.offline
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stager, err := media.NewStager(cfg.StagingDir())
	if err != nil {
		return fmt.Errorf("failed to prepare attachment staging: %w", err)
	}
	defer func() {
		if err := stager.Close(); err != nil {
			logger.Warn("Failed to clean up staging: %v", err)
		}
	}()

	var (
		submitter report.Submitter
		load      tui.FeedLoader
		source    string
	)
	if cfg.Offline {
		submitter = intake.Fabricated{Delay: offlineDelay}
		load = func(context.Context) (*intake.Feed, error) { return intake.NewFeed(), nil }
		source = "offline"
	} else {
		broker, store, err := openIntake(ctx, cfg, cfg.SeedDemo)
		if err != nil {
			return err
		}
		defer func() {
			if err := broker.Close(); err != nil {
				logger.Warn("Failed to close report log: %v", err)
			}
		}()
		submitter = store
		load = store.LoadFeed
		source = "jetstream"
	}

	notice := ""
	for {
		choice, err := tui.Run(ctx, load, tui.Options{Source: source, Notice: notice})
		if err != nil {
			return err
		}
		if choice != tui.ChoiceNewReport {
			return nil
		}

		machine := report.New(stager, report.Options{
			Submitter:          submitter,
			MaxAttachments:     cfg.MaxAttachments,
			MaxAttachmentBytes: cfg.MaxAttachmentBytes,
			SubmitTimeout:      cfg.SubmitTimeout,
		})
		receipts, err := wizard.Run(ctx, machine, wizard.Options{MediaDir: reportFlags.mediaDir})
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		notice = receiptNotice(receipts)
	}
}

// receiptNotice summarizes the references filed in one wizard run.
func receiptNotice(receipts []report.Receipt) string {
	switch len(receipts) {
	case 0:
		return ""
	case 1:
		return "Report " + receipts[0].Reference + " submitted"
	}
	refs := make([]string, len(receipts))
	for i, r := range receipts {
		refs[i] = r.Reference
	}
	return fmt.Sprintf("%d reports submitted: %s", len(receipts), strings.Join(refs, ", "))
}
