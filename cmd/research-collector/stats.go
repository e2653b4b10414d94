// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Stats prints the total number of stored papers, counts by source and
primary category, and the most recent research sessions.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output statistics as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	stats, err := st.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading database stats: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println("DATABASE INFORMATION")
	fmt.Println("====================")
	fmt.Println()
	fmt.Printf("Total Papers Stored: %d\n", stats.TotalPapers)

	fmt.Println()
	fmt.Println("Papers by Source:")
	for _, kv := range sortedCounts(stats.PapersBySource, 0) {
		fmt.Printf("  %s: %d papers\n", kv.key, kv.count)
	}

	fmt.Println()
	fmt.Println("Top Categories:")
	for _, kv := range sortedCounts(stats.PapersByCategory, 5) {
		fmt.Printf("  %s: %d papers\n", kv.key, kv.count)
	}

	sessions, err := st.RecentSessions(ctx, 3)
	if err == nil && len(sessions) > 0 {
		fmt.Println()
		fmt.Println("Recent Research Sessions:")
		for i, s := range sessions {
			fmt.Printf("%d. %s - %d papers\n", i+1, s.ResearchTopic, s.PaperCount)
		}
	}
	return nil
}

type countEntry struct {
	key   string
	count int
}

// sortedCounts orders a count map descending by count, then by key for a
// stable listing. topN of 0 means all.
func sortedCounts(m map[string]int, topN int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}
