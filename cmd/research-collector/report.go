// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-collector/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [topic]",
	Short: "Regenerate the analysis report from stored papers",
	Long: `Report loads stored paper records, optionally filtered by the research
topic they were collected for, and renders the analysis report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int("limit", 0, "maximum stored papers to include (default 1000)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topic := ""
	if len(args) == 1 {
		topic = args[0]
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := st.ListPapers(ctx, topic, limit)
	if err != nil {
		return fmt.Errorf("loading stored papers: %w", err)
	}

	report.WriteReport(os.Stdout, records)
	return nil
}
