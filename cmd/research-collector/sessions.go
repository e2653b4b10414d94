// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent research sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().Int("limit", 5, "maximum sessions to list")
	sessionsCmd.Flags().Bool("json", false, "output sessions as JSON")

	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := st.RecentSessions(ctx, limit)
	if err != nil {
		return fmt.Errorf("reading sessions: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	fmt.Printf("%-26s  %-40s  %-6s  %s\n", "Session", "Topic", "Papers", "Created")
	fmt.Println(strings.Repeat("-", 95))
	for _, s := range sessions {
		fmt.Printf("%-26s  %-40s  %-6d  %s\n",
			s.SessionID, s.ResearchTopic, s.PaperCount,
			s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
