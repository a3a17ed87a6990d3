package config

import (
	"fmt"
	"io"
	"strings"
)

// ConfigError collects everything wrong with a config file so one run
// reports all of it.
type ConfigError struct {
	Path    string   // empty for the built-in defaults
	Missing []string // ${NAME} references with neither a value nor a default
	Errors  []string // "section.key: problem"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	where := e.Path
	if where == "" {
		where = "built-in defaults"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "config %s:", where)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\nmissing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		b.WriteString("\nvalidation failed:")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}

// HasErrors returns true if there are any errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// Report lists the problems for a terminal and says how to fix them.
func (e *ConfigError) Report(w io.Writer) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, name := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", name)
		}
		fmt.Fprintln(w, "Export them, or give the reference a default: ${NAME:-value}")
	}
	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, msg := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	if e.Path != "" {
		fmt.Fprintf(w, "Edit %s, or run 'nbpod init --force' to start again from the example.\n", e.Path)
	}
}
