package main

import (
	"fmt"
	"time"

	"github.com/reportu/reportu/internal/tui/theme"
	"github.com/spf13/cobra"
)

var feedFlags struct {
	limit int
	seed  bool
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print recent activity and successful cases",
	Args:  cobra.NoArgs,
	RunE:  runFeed,
}

func init() {
	feedCmd.Flags().IntVarP(&feedFlags.limit, "limit", "l", 10, "Number of reports per section, 0 for all")
	feedCmd.Flags().BoolVar(&feedFlags.seed, "seed", false, "Seed demo reports when the log is empty")
}

func runFeed(cmd *cobra.Command, args []string) error {
	if feedFlags.limit < 0 {
		return fmt.Errorf("limit must be >= 0")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	broker, store, err := openIntake(ctx, cfg, feedFlags.seed || cfg.SeedDemo)
	if err != nil {
		return err
	}
	defer func() { _ = broker.Close() }()

	feed, err := store.LoadFeed(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reports: %w", err)
	}

	out := cmd.OutOrStdout()
	s := theme.Current().S()
	now := time.Now()

	fmt.Fprintln(out, s.ModalTitle.Render("Recent Activity"))
	recent := feed.Recent(feedFlags.limit)
	if len(recent) == 0 {
		fmt.Fprintln(out, s.Subtle.Render("  No reports yet."))
	}
	for _, e := range recent {
		fmt.Fprintf(out, "  %s  %-19s  %s · %s  %s\n",
			s.Text.Bold(true).Render(e.Reference), e.Status, e.Category, e.Country, s.Muted.Render(e.Age(now)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, s.ModalTitle.Render("Successful Cases"))
	successes := feed.Successes(feedFlags.limit)
	if len(successes) == 0 {
		fmt.Fprintln(out, s.Subtle.Render("  No resolved cases yet."))
	}
	for _, e := range successes {
		fmt.Fprintf(out, "  %s %s · %s\n", s.Success.Render("✓ "+e.Reference), e.Category, s.Muted.Render("resolved "+e.ResolvedAge(now)))
		fmt.Fprintf(out, "    %s\n", e.Outcome)
	}
	return nil
}
