// Package runs records the history of create and publish runs and the
// per-URL outcome of each.
package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is what a run did.
type Kind string

const (
	KindCreate  Kind = "create"
	KindPublish Kind = "publish"
)

// Status tracks one URL through a run.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusAdded       Status = "added" // source added to a notebook
	StatusDownloading Status = "downloading"
	StatusDownloaded  Status = "downloaded"
	StatusPublishing  Status = "publishing"
	StatusPublished   Status = "published"
	StatusFailed      Status = "failed"
)

// Run is one CLI invocation.
type Run struct {
	ID         string
	Kind       Kind
	Total      int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Item is one URL of a run.
type Item struct {
	ID               int64
	RunID            string
	Position         int
	URL              string
	Status           Status
	AudioPath        string
	Title            string
	Error            string
	AddedAt          time.Time
	LastTransitionAt time.Time
}

// TransitionEvent is passed to handlers after an item changed status.
type TransitionEvent struct {
	RunID  string
	ItemID int64
	URL    string
	From   Status
	To     Status
	At     time.Time
}

// TransitionHandler is called on every item transition.
type TransitionHandler func(TransitionEvent)

// Store persists runs and their items.
type Store struct {
	db       *sql.DB
	handlers []TransitionHandler
	now      func() time.Time
}

// NewStore creates a run store on a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// OnTransition registers a handler to be called on item transitions.
func (s *Store) OnTransition(h TransitionHandler) {
	s.handlers = append(s.handlers, h)
}

// Start records a new run with one queued item per URL, in order.
func (s *Store) Start(kind Kind, urls []string) (*Run, []*Item, error) {
	now := s.now()
	run := &Run{ID: uuid.NewString(), Kind: kind, Total: len(urls), StartedAt: now}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO runs (id, kind, total, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Kind, run.Total, run.StartedAt); err != nil {
		return nil, nil, fmt.Errorf("insert run: %w", err)
	}

	items := make([]*Item, len(urls))
	for i, u := range urls {
		res, err := tx.Exec(`
			INSERT INTO run_items (run_id, position, url, status, added_at, last_transition_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, u, StatusQueued, now, now,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("insert item %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("get last insert id: %w", err)
		}
		items[i] = &Item{
			ID: id, RunID: run.ID, Position: i, URL: u, Status: StatusQueued,
			AddedAt: now, LastTransitionAt: now,
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return run, items, nil
}

// Finish stamps the run's finish time.
func (s *Store) Finish(runID string) error {
	res, err := s.db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, s.now(), runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRow(`
		SELECT id, kind, total, started_at, finished_at FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, kind, total, started_at, finished_at FROM runs
		ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Items returns a run's items in input order.
func (s *Store) Items(runID string) ([]*Item, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, position, url, status, audio_path, title, error, added_at, last_transition_at
		FROM run_items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list items of %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(&it.ID, &it.RunID, &it.Position, &it.URL, &it.Status, &it.AudioPath,
			&it.Title, &it.Error, &it.AddedAt, &it.LastTransitionAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// Transition changes an item's status with validation, persisting the
// item's AudioPath, Title and Error alongside.
func (s *Store) Transition(it *Item, to Status) error {
	if !it.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, it.Status, to)
	}

	from := it.Status
	now := s.now()
	res, err := s.db.Exec(`
		UPDATE run_items SET status = ?, audio_path = ?, title = ?, error = ?, last_transition_at = ?
		WHERE id = ?`,
		to, it.AudioPath, it.Title, it.Error, now, it.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", it.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transition item %d: %w", it.ID, ErrNotFound)
	}

	it.Status = to
	it.LastTransitionAt = now

	event := TransitionEvent{RunID: it.RunID, ItemID: it.ID, URL: it.URL, From: from, To: to, At: now}
	for _, h := range s.handlers {
		h(event)
	}
	return nil
}

// Fail moves an item to failed, recording msg.
func (s *Store) Fail(it *Item, msg string) error {
	it.Error = msg
	return s.Transition(it, StatusFailed)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var finished sql.NullTime
	if err := row.Scan(&run.ID, &run.Kind, &run.Total, &run.StartedAt, &finished); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}
