package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventLog is the durable record of run, source, artifact and episode
// events. The schema lives in internal/migrations.
type EventLog struct {
	db *sql.DB
}

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// Append stores e with its JSON payload and returns the row id.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", e.EventType(), err)
	}

	res, err := l.db.Exec(
		`INSERT INTO events (event_type, entity_type, entity_key, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityKey(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", e.EventType(), err)
	}
	return res.LastInsertId()
}

// RawEvent is a stored event. Registry.Unmarshal turns it back into its
// concrete type.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityKey  string
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Query selects stored events. Zero fields do not filter.
type Query struct {
	Since      time.Time
	Types      []string
	EntityType string
	EntityKey  string

	// Limit keeps the newest Limit matches. Results are always oldest first.
	Limit int
}

func (q Query) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.Since.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.Since)
	}
	if len(q.Types) > 0 {
		conds = append(conds, "event_type IN (?"+strings.Repeat(", ?", len(q.Types)-1)+")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if q.EntityType != "" {
		conds = append(conds, "entity_type = ?")
		args = append(args, q.EntityType)
	}
	if q.EntityKey != "" {
		conds = append(conds, "entity_key = ?")
		args = append(args, q.EntityKey)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Find returns the events matching q, oldest first.
func (l *EventLog) Find(q Query) ([]RawEvent, error) {
	where, args := q.where()
	stmt := `SELECT id, event_type, entity_type, entity_key, payload, occurred_at, created_at FROM events` + where
	if q.Limit > 0 {
		stmt = `SELECT * FROM (` + stmt + ` ORDER BY id DESC LIMIT ?) ORDER BY id ASC`
		args = append(args, q.Limit)
	} else {
		stmt += ` ORDER BY id ASC`
	}

	rows, err := l.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityKey, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Since returns every event at or after t.
func (l *EventLog) Since(t time.Time) ([]RawEvent, error) {
	return l.Find(Query{Since: t})
}

// ForEntity returns the history of one run, source, artifact or episode.
func (l *EventLog) ForEntity(entityType, key string) ([]RawEvent, error) {
	return l.Find(Query{EntityType: entityType, EntityKey: key})
}

// Recent returns the newest n events, oldest first.
func (l *EventLog) Recent(n int) ([]RawEvent, error) {
	return l.Find(Query{Limit: n})
}

// Prune deletes events older than olderThan and returns how many went.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
