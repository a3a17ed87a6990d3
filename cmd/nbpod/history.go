package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/runs"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past runs, or the items of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
}

var errNoHistory = errors.New("run history is disabled (database.enabled = false)")

type runJSON struct {
	*runs.Run
	Items []*runs.Item `json:"items,omitempty"`
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.store == nil {
		return errNoHistory
	}

	if len(args) == 1 {
		return showRun(a.store, args[0])
	}

	limit, _ := cmd.Flags().GetInt("limit")
	recent, err := a.store.Recent(limit)
	if err != nil {
		return fmt.Errorf("load runs: %w", err)
	}

	if jsonOutput {
		printJSON(recent)
		return nil
	}
	if len(recent) == 0 {
		fmt.Println("No runs yet")
		return nil
	}

	fmt.Printf("Recent Runs (%d):\n\n", len(recent))
	fmt.Printf("  %-36s  %-8s %-6s %-12s %s\n", "ID", "KIND", "ITEMS", "STARTED", "STATE")
	fmt.Println("  " + strings.Repeat("-", 76))
	for _, r := range recent {
		state := "running"
		if r.FinishedAt != nil {
			state = "finished"
		}
		fmt.Printf("  %-36s  %-8s %-6d %-12s %s\n", r.ID, r.Kind, r.Total, formatTimeAgo(r.StartedAt), state)
	}
	return nil
}

func showRun(store *runs.Store, id string) error {
	run, err := store.Get(id)
	if err != nil {
		return err
	}
	items, err := store.Items(id)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	if jsonOutput {
		printJSON(runJSON{Run: run, Items: items})
		return nil
	}

	printHeader(fmt.Sprintf("Run %s (%s)", run.ID, run.Kind))
	fmt.Printf("  Started: %s\n\n", formatTimeAgo(run.StartedAt))
	for _, it := range items {
		fmt.Printf("  %2d. %-11s %s\n", it.Position+1, it.Status, it.URL)
		if it.Title != "" {
			fmt.Printf("      Title: %s\n", it.Title)
		}
		if it.Error != "" {
			fmt.Println("      " + out.err.Render(it.Error))
		}
	}
	return nil
}
