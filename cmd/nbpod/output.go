package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vmunix/nbpod/internal/events"
)

type styles struct {
	err     lipgloss.Style
	warn    lipgloss.Style
	success lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style
	header  lipgloss.Style
}

// newStyles builds the palette for one output stream; the renderer decides
// whether the stream gets colour.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		err:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		info:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}),
		dim:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		bold:    r.NewStyle().Bold(true),
		header: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}),
	}
}

var out = newStyles(lipgloss.NewRenderer(os.Stdout))

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printHeader(title string) {
	fmt.Println(out.header.Render(title))
}

func mark(ok bool) string {
	if ok {
		return out.success.Render("✓")
	}
	return out.err.Render("✗")
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	ago := time.Since(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		days := int(ago.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// formatElapsed renders d in whole seconds, or with one decimal under ten
// seconds.
func formatElapsed(d time.Duration) string {
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// truncate shortens s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// printer renders bus events on a terminal stream.
type printer struct {
	w        io.Writer
	st       styles
	progress bool

	mu   sync.Mutex
	done chan struct{}
}

// newPrinter subscribes to every event on bus. Progress lines are written
// only when progress is true; log records always are.
func newPrinter(w io.Writer, bus *events.Bus, progress bool) *printer {
	p := &printer{
		w:        w,
		st:       newStyles(lipgloss.NewRenderer(w)),
		progress: progress,
		done:     make(chan struct{}),
	}
	ch := bus.SubscribeAll(1024)
	go p.loop(ch)
	return p
}

func (p *printer) loop(ch <-chan events.Event) {
	defer close(p.done)
	for e := range ch {
		if line, ok := p.format(e); ok {
			p.write(line)
		}
	}
}

// Wait blocks until the bus was closed and every queued event printed.
func (p *printer) Wait() {
	<-p.done
}

// Hint prints a highlighted line outside the event stream.
func (p *printer) Hint(msg string) {
	p.write(p.st.warn.Render(msg))
}

func (p *printer) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, line)
}

func (p *printer) format(e events.Event) (string, bool) {
	switch ev := e.(type) {
	case *events.LogRecord:
		return p.formatLog(ev), true
	case *events.Progress:
		if !p.progress {
			return "", false
		}
		return p.st.dim.Render(fmt.Sprintf("[%3d%%]", ev.Percent)) + " " + ev.Message, true
	}
	return "", false
}

func (p *printer) formatLog(r *events.LogRecord) string {
	var b strings.Builder
	switch r.Level {
	case "ERROR":
		b.WriteString(p.st.err.Render("error:") + " ")
	case "WARN":
		b.WriteString(p.st.warn.Render("warning:") + " ")
	case "DEBUG":
		b.WriteString(p.st.dim.Render("debug:") + " ")
	}
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Attrs))
	for k := range r.Attrs {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + p.st.dim.Render(k+"="+r.Attrs[k]))
	}
	return b.String()
}
