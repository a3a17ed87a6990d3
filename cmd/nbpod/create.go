package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/urls"
	"github.com/vmunix/nbpod/internal/workflow"
)

var createCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Add sources to a new notebook and start audio generation",
	Long: `Create a notebook from a list of URLs and start generating its audio overview.

URLs are read from --urls, from the file argument (one per line) or from
standard input. YouTube links are added as video sources, everything else
as websites.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreateCmd,
}

func init() {
	rootCmd.AddCommand(createCmd)
	addURLFlags(createCmd)
	createCmd.Flags().BoolP("jina-reader", "j", false, "Fetch website sources through the reader proxy")
}

func runCreateCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := stdinURLs(cmd, args)
	if err != nil {
		return err
	}
	if a.cfg.Reader.Enabled {
		list = urls.ApplyReader(a.cfg.Reader.BaseURL, list)
		a.log.Info("Using reader proxy for URLs", "base", a.cfg.Reader.BaseURL)
	}

	wf, err := a.workflow()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	report, err := wf.Create(ctx, list)
	if err != nil {
		a.connectionHint(err)
	}
	if report != nil {
		if jsonOutput {
			printJSON(createSummary(report, time.Since(start), err))
		} else {
			printCreateReport(report, time.Since(start))
		}
	}
	return err
}

type createJSON struct {
	RunID       string            `json:"run_id,omitempty"`
	NotebookURL string            `json:"notebook_url,omitempty"`
	Sources     []createSourceRow `json:"sources"`
	Generation  string            `json:"generation"`
	Elapsed     string            `json:"elapsed"`
	Error       string            `json:"error,omitempty"`
}

type createSourceRow struct {
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Added bool   `json:"added"`
	Error string `json:"error,omitempty"`
}

// generationState is "confirmed", "started", "failed" or "skipped".
func generationState(r *workflow.CreateReport) string {
	switch {
	case r.Generate != nil && r.Generate.Confirmed:
		return "confirmed"
	case r.Generate != nil:
		return "started"
	case r.GenerateErr != nil:
		return "failed"
	default:
		return "skipped"
	}
}

func createSummary(r *workflow.CreateReport, elapsed time.Duration, runErr error) createJSON {
	s := createJSON{
		RunID:       r.RunID,
		NotebookURL: r.NotebookURL,
		Sources:     []createSourceRow{},
		Generation:  generationState(r),
		Elapsed:     formatElapsed(elapsed),
	}
	if r.Ingest != nil {
		for _, it := range r.Ingest.Items {
			row := createSourceRow{URL: it.URL, Kind: it.Kind.String(), Added: it.OK()}
			if it.Err != nil {
				row.Error = it.Err.Error()
			}
			s.Sources = append(s.Sources, row)
		}
	}
	if runErr != nil {
		s.Error = runErr.Error()
	} else if r.GenerateErr != nil {
		s.Error = r.GenerateErr.Error()
	}
	return s
}

func printCreateReport(r *workflow.CreateReport, elapsed time.Duration) {
	fmt.Println()
	printHeader("Notebook")
	if r.Ingest != nil {
		for _, it := range r.Ingest.Items {
			line := fmt.Sprintf("  %s %-8s %s", mark(it.OK()), it.Kind, it.URL)
			if it.Err != nil {
				line += out.dim.Render("  " + it.Err.Error())
			}
			fmt.Println(line)
		}
		fmt.Printf("\n  Sources added: %d/%d\n", r.Ingest.Succeeded(), len(r.Ingest.Items))
	}
	switch generationState(r) {
	case "confirmed", "started":
		fmt.Println("  " + out.success.Render("Audio generation started"))
	case "failed":
		fmt.Println("  " + out.err.Render("Audio generation not started: "+r.GenerateErr.Error()))
	}
	if r.NotebookURL != "" {
		fmt.Printf("  Notebook: %s\n", r.NotebookURL)
	}
	fmt.Println(out.dim.Render(fmt.Sprintf("  Total execution time: %s", formatElapsed(elapsed))))
}
