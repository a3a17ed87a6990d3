package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/urls"
	"golang.org/x/term"
)

// addURLFlags registers the URL source flags shared by create and publish.
func addURLFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("urls", "u", "", "Comma-separated list of URLs")
	cmd.Flags().IntP("port", "p", 9222, "Chrome remote debugging port")
}

// readURLs resolves the URL list from --urls, the file argument or stdin,
// in that order.
func readURLs(cmd *cobra.Command, args []string, stdin io.Reader, interactive bool, prompt io.Writer) ([]string, error) {
	in := urls.Input{Stdin: stdin}
	in.Flag, _ = cmd.Flags().GetString("urls")
	if len(args) > 0 {
		in.File = args[0]
	}
	if in.Flag == "" && in.File == "" && interactive {
		_, _ = fmt.Fprintln(prompt, "\n=== URL Input Mode ===")
		in.Prompt = prompt
	}

	list, err := urls.Resolve(in)
	if err != nil {
		return nil, err
	}
	if in.File != "" && in.Flag == "" {
		_, _ = fmt.Fprintf(prompt, "Read %d URLs from file: %s\n", len(list), in.File)
	}
	if in.Prompt != nil {
		_, _ = fmt.Fprintf(prompt, "Total URLs entered: %d\n", len(list))
	}
	return list, nil
}

// stdinURLs reads URLs for a command from the process's stdin, prompting
// when stdin is a terminal.
func stdinURLs(cmd *cobra.Command, args []string) ([]string, error) {
	return readURLs(cmd, args, os.Stdin, term.IsTerminal(int(os.Stdin.Fd())), os.Stderr)
}
