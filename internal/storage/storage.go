package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pado/internal/task"
)

// slotKey is the fixed key the whole task collection lives under.
const slotKey = "tasks"

var (
	ErrLoadFailure = errors.New("stored tasks unreadable")
	ErrSaveFailure = errors.New("saving tasks failed")
)

// Store persists the task collection as a JSON array in a single key-value
// slot. Writes always replace the whole slot.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS slots (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// record mirrors one persisted task. Timestamps stay strings here so a
// malformed value degrades per-field instead of failing the whole load.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Load reads the slot and rebuilds the collection. An absent slot yields an
// empty list and no error. An unreadable slot or one that does not hold a
// JSON array yields an empty list and an error wrapping ErrLoadFailure;
// callers are expected to continue with the empty state. Individual records
// are reconstructed defensively: a missing id gets a fresh one, missing text
// becomes empty, missing or malformed timestamps become the current instant.
func (s *Store) Load() ([]task.Task, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?;`, slotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	now := time.Now().UTC()
	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, restore(r, now))
	}
	return tasks, nil
}

func restore(r record, now time.Time) task.Task {
	// A hand-edited slot may carry raw markup or control bytes in the text.
	// Normalizing keeps well-formed values unchanged.
	t := task.Task{
		ID:        r.ID,
		Text:      task.Sanitize(task.Plain(r.Text)),
		Completed: r.Completed,
		CreatedAt: parseStamp(r.CreatedAt, now),
		UpdatedAt: parseStamp(r.UpdatedAt, now),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t
}

func parseStamp(v string, fallback time.Time) time.Time {
	if v == "" {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fallback
	}
	return parsed.UTC()
}

// Save serializes the full collection and replaces the slot contents.
// Failures wrap ErrSaveFailure; the in-memory state is untouched either way.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailure, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		slotKey, string(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailure, err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
