package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 2h)")
	eventsCmd.Flags().StringSlice("type", nil, "Only these event types (e.g. artifact.failed)")
	eventsCmd.Flags().String("run", "", "Only events of this run")
	eventsCmd.Flags().Duration("prune", 0, "Delete events older than this instead of listing")
}

type eventJSON struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityKey  string          `json:"entity_key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.events == nil {
		return errNoHistory
	}

	if prune, _ := cmd.Flags().GetDuration("prune"); prune > 0 {
		n, err := a.events.Prune(prune)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d events\n", n)
		return nil
	}

	q := events.Query{}
	q.Limit, _ = cmd.Flags().GetInt("limit")
	q.Types, _ = cmd.Flags().GetStringSlice("type")
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		q.Since = time.Now().Add(-since)
	}
	if run, _ := cmd.Flags().GetString("run"); run != "" {
		q.EntityType, q.EntityKey = events.EntityRun, run
	}

	list, err := a.events.Find(q)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		rows := make([]eventJSON, len(list))
		for i, e := range list {
			rows[i] = eventJSON{ID: e.ID, Type: e.EventType, EntityType: e.EntityType, EntityKey: e.EntityKey, OccurredAt: e.OccurredAt, Payload: json.RawMessage(e.Payload)}
		}
		printJSON(rows)
		return nil
	}

	if len(list) == 0 {
		fmt.Println("No events")
		return nil
	}

	registry := events.DefaultRegistry()
	fmt.Printf("Recent Events (%d):\n\n", len(list))
	fmt.Printf("  %-12s %-22s %-40s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
	fmt.Println("  " + strings.Repeat("-", 100))
	for _, e := range list {
		entity := e.EntityType
		if e.EntityKey != "" {
			entity += "/" + e.EntityKey
		}
		fmt.Printf("  %-12s %-22s %-40s %s\n", formatTimeAgo(e.OccurredAt), e.EventType, truncate(entity, 40), eventDetail(registry, e))
	}
	return nil
}

// eventDetail summarizes the payload of a stored event. Payloads that no
// longer decode are shown as stored.
func eventDetail(registry *events.Registry, raw events.RawEvent) string {
	e, err := registry.Unmarshal(raw)
	if err != nil {
		return raw.Payload
	}
	switch e := e.(type) {
	case *events.RunStarted:
		return fmt.Sprintf("%s of %d URLs", e.Kind, e.Total)
	case *events.RunCompleted:
		return fmt.Sprintf("%d succeeded, %d failed", e.Succeeded, e.Failed)
	case *events.SourceAdding:
		return fmt.Sprintf("%s %d/%d (%s)", e.Action, e.Index+1, e.Total, e.Kind)
	case *events.SourceAdded:
		return fmt.Sprintf("source %d", e.Index+1)
	case *events.SourceFailed:
		return fmt.Sprintf("source %d: %s", e.Index+1, e.Reason)
	case *events.GenerationTriggered:
		if e.Confirmed {
			return "confirmed"
		}
		return "unconfirmed"
	case *events.RetrieveStage:
		return e.Stage
	case *events.ArtifactDownloaded:
		return fmt.Sprintf("%s (%d bytes)", e.Path, e.Size)
	case *events.ArtifactFailed:
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	case *events.PublishCompleted:
		return e.Title
	case *events.PublishFailed:
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return ""
}
