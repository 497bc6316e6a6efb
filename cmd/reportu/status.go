package main

import (
	"fmt"
	"strings"

	"github.com/reportu/reportu/internal/intake"
	"github.com/spf13/cobra"
)

var statusFlags struct {
	outcome string
}

var statusCmd = &cobra.Command{
	Use:   "status <reference> <status>",
	Short: "Record the handling status of a filed report",
	Long: `Record how the authorities are handling a report.

Status is one of: ` + statusNames() + `.
An --outcome may only be given together with Resolved; resolved reports
with an outcome appear under Successful Cases.`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusFlags.outcome, "outcome", "o", "", "What came of the report (Resolved only)")
}

func statusNames() string {
	names := make([]string, 0, len(intake.Statuses()))
	for _, s := range intake.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := intake.ParseStatus(args[1])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	broker, store, err := openIntake(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = broker.Close() }()

	entry, err := store.UpdateStatus(ctx, args[0], status, statusFlags.outcome)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", entry.Reference, entry.Status)
	return nil
}
