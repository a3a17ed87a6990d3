package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/batch"
	"github.com/vmunix/nbpod/internal/workflow"
)

var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Download notebook audio and publish it as podcast episodes",
	Long: `Download the generated audio of each notebook and upload it through the
episode wizard of the podcast host.

Each notebook URL becomes one episode titled after the notebook, with its
summary as description. Use --no-publish to only download the files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublishCmd,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addURLFlags(publishCmd)
	publishCmd.Flags().Bool("no-publish", false, "Download only, skip the upload")
	publishCmd.Flags().StringP("output", "o", "", "Directory for downloaded audio (default: temporary)")
	publishCmd.Flags().IntP("workers", "w", 1, "Notebooks processed concurrently")
	publishCmd.Flags().Duration("timeout", 5*time.Minute, "Time limit per notebook")
}

func runPublishCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := stdinURLs(cmd, args)
	if err != nil {
		return err
	}
	wf, err := a.workflow()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := wf.Publish(ctx, list)
	if err != nil {
		a.connectionHint(err)
	}

	if jsonOutput {
		printJSON(publishSummary(results))
	} else {
		printPublishResults(results, time.Since(start))
	}
	return err
}

// publishJSON is the --json form of a publish run. Results are keyed by
// notebook URL; each carries its input position as index.
type publishJSON struct {
	Succeeded int                            `json:"succeeded"`
	Total     int                            `json:"total"`
	Results   map[string]workflow.ItemResult `json:"results"`
}

func publishSummary(results []workflow.ItemResult) publishJSON {
	return publishJSON{
		Succeeded: countSucceeded(results),
		Total:     len(results),
		Results:   batch.ByKey(results, func(r workflow.ItemResult) string { return r.URL }),
	}
}

// countSucceeded counts the items whose audio was downloaded and, when an
// upload was attempted, published.
func countSucceeded(results []workflow.ItemResult) int {
	n := 0
	for _, r := range results {
		if r.Success && (r.Publish == nil || r.Publish.Success) {
			n++
		}
	}
	return n
}

func printPublishResults(results []workflow.ItemResult, elapsed time.Duration) {
	if len(results) == 0 {
		return
	}
	fmt.Println()
	printHeader("Results")
	for _, r := range results {
		ok := r.Success && (r.Publish == nil || r.Publish.Success)
		fmt.Printf("  %s %s\n", mark(ok), r.URL)
		if r.AudioFile != "" {
			fmt.Printf("      Audio:   %s\n", r.AudioFile)
		}
		if r.Title != "" {
			fmt.Printf("      Title:   %s\n", r.Title)
		}
		if r.Publish != nil {
			fmt.Printf("      Publish: %s %s\n", mark(r.Publish.Success), r.Publish.Message)
		}
		if r.Error != "" && (r.Publish == nil || r.Publish.Success) {
			fmt.Println("      " + out.err.Render(r.Error))
		}
		fmt.Println(out.dim.Render("      " + formatElapsed(r.Elapsed)))
	}
	fmt.Printf("\n  Successfully processed %d of %d notebooks\n", countSucceeded(results), len(results))
	fmt.Println(out.dim.Render(fmt.Sprintf("  Total execution time: %s", formatElapsed(elapsed))))
}
