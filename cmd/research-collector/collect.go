// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-collector/internal/arxiv"
	"github.com/pdiddy/research-collector/internal/export"
	"github.com/pdiddy/research-collector/internal/pipeline"
	"github.com/pdiddy/research-collector/internal/report"
	"github.com/pdiddy/research-collector/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect [topic]",
	Short: "Collect and store research papers for a topic",
	Long: `Collect searches arXiv for papers matching the topic, normalizes and
quality-scores each record, stores the batch plus a session summary in the
configured database, and prints the results table and analysis report.

A run that finds no papers, or whose storage fails, is reported in the
outcome message; collected records are still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().Int("max-papers", 0, "maximum papers to collect (default from config)")
	collectCmd.Flags().Bool("json", false, "output the run as JSON")
	collectCmd.Flags().Bool("export", false, "write the run to a YAML file in the export directory")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(args[0])
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	if maxPapers <= 0 {
		maxPapers = cfg.Collect.MaxPapers
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	client := arxiv.NewClient(cfg.Collect)
	p := pipeline.New(client, st)

	records, message := p.Run(ctx, topic, maxPapers)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Message string              `json:"message"`
			Papers  []types.PaperRecord `json:"papers"`
		}{Message: message, Papers: records})
	}

	fmt.Println(message)
	if len(records) == 0 {
		return nil
	}

	fmt.Println()
	report.FormatTable(os.Stdout, records)
	fmt.Println()
	report.WriteReport(os.Stdout, records)

	if doExport, _ := cmd.Flags().GetBool("export"); doExport {
		now := time.Now()
		session := types.Session{
			SessionID:     "session_" + now.Format("20060102_150405"),
			ResearchTopic: topic,
			PaperCount:    len(records),
			CreatedAt:     now,
			Status:        types.SessionCompleted,
		}
		path, err := export.WriteRun(cfg.Export.Dir, session, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported run to %s\n", path)
	}
	return nil
}
