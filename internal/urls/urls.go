// Package urls turns CLI input into the ordered list of source URLs.
package urls

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors for the urls package.
var (
	// ErrNoURLs is returned when input yields no non-blank URL.
	ErrNoURLs = errors.New("no URLs provided, please provide at least one valid URL")

	// ErrFileNotFound is returned when the URL file does not exist.
	ErrFileNotFound = errors.New("URL file not found")
)

// DefaultReaderBase is the content-extraction proxy prefix.
const DefaultReaderBase = "https://r.jina.ai/"

// Input holds the three possible URL sources. The first non-empty one of
// Flag, File, Stdin is used.
type Input struct {
	Flag  string // comma-separated
	File  string // one URL per line
	Stdin io.Reader

	// Prompt receives interactive instructions while Stdin is read. Leave nil
	// when Stdin is not a terminal.
	Prompt io.Writer
}

// Resolve returns the trimmed, non-blank URLs from in.
func Resolve(in Input) ([]string, error) {
	var (
		urls []string
		err  error
	)
	switch {
	case strings.TrimSpace(in.Flag) != "":
		urls = SplitList(in.Flag)
	case in.File != "":
		urls, err = readFile(in.File)
	case in.Stdin != nil:
		urls, err = ReadLines(in.Stdin, in.Prompt)
	}
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	return urls, nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if u := strings.TrimSpace(part); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadLines(f, nil)
}

// ReadLines reads one URL per line. When prompt is non-nil each accepted URL
// is echoed to it.
func ReadLines(r io.Reader, prompt io.Writer) ([]string, error) {
	if prompt != nil {
		_, _ = fmt.Fprintln(prompt, "Enter URLs (one per line), then Ctrl+D:")
	}
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		u := strings.TrimSpace(sc.Text())
		if u == "" {
			continue
		}
		out = append(out, u)
		if prompt != nil {
			_, _ = fmt.Fprintf(prompt, "Added URL #%d: %s\n", len(out), u)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return out, nil
}

// ReaderRewrite prefixes u with base unless it already starts with it.
func ReaderRewrite(base, u string) string {
	if base == "" {
		base = DefaultReaderBase
	}
	if strings.HasPrefix(u, base) {
		return u
	}
	return base + u
}

// ApplyReader rewrites every URL through the reader proxy.
func ApplyReader(base string, urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = ReaderRewrite(base, u)
	}
	return out
}
