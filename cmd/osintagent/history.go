package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show investigation history for a target",
	Long: `Display a formatted table of past investigation runs for a target domain.

Runs are listed newest-first. Each row shows the run ID (truncated), start
time, completion status, and which phases were run.

Use --limit to cap the number of rows shown (default: 10).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")

		target := strings.ToLower(strings.TrimSpace(domain))

		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'osintagent init' first to create config")
		}

		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(target)
		if err != nil {
			return fmt.Errorf("listing runs for %s: %w", target, err)
		}

		if len(runs) == 0 {
			fmt.Printf("No investigation history found for %s\n", target)
			return nil
		}

		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}

		const separator = "────────────────────────────────────────────────────────────────────────"

		fmt.Printf("\nInvestigation History for %s\n", target)
		fmt.Println(separator)
		fmt.Printf("  %-3s  %-12s  %-20s  %-10s  %s\n", "#", "Run ID", "Started", "Status", "Phases")
		fmt.Println(separator)

		for i, run := range runs {
			started := run.StartedAt.UTC().Format("2006-01-02 15:04")
			fmt.Printf("  %-3d  %-12s  %-20s  %-10s  %s\n",
				i+1, shortRunID(run.ID), started, run.Status, formatPhases(run.PhasesRun))
		}

		fmt.Println(separator)
		fmt.Printf("Total: %d run(s)\n\n", len(runs))

		return nil
	},
}

// shortRunID returns the first 8 characters of a UUID followed by "..." for
// compact table display. Falls back to the full ID when shorter than 8 chars.
func shortRunID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

// formatPhases joins the PhasesRun slice into a comma-separated string.
// Returns "-" when no phases are recorded.
func formatPhases(phases []models.Phase) string {
	if len(phases) == 0 {
		return "-"
	}
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func init() {
	historyCmd.Flags().StringP("domain", "d", "", "Target domain (required)")
	historyCmd.Flags().Int("limit", 10, "Maximum number of runs to display")
	historyCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(historyCmd)
}
