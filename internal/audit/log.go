// Package audit records planning activity in a SQLite-backed event log so a
// migration team can reconstruct when plans were generated and from what.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const defaultDBPath = "audit/events.db"

// Event is one recorded planning event.
type Event struct {
	ID      int64           `json:"id"`
	TS      time.Time       `json:"ts"`
	Source  string          `json:"source"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Logger appends events to a SQLite event log. The zero value logs to the
// default path; audit writes are best-effort for callers.
type Logger struct {
	DBPath string
}

// NewLogger returns a Logger bound to the provided DB path.
func NewLogger(dbPath string) *Logger {
	return &Logger{DBPath: dbPath}
}

// Log records a single event with a JSON payload.
func (l *Logger) Log(source, eventType string, payload any) error {
	path := ""
	if l != nil {
		path = l.DBPath
	}
	resolved, err := resolveDBPath(path)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := ensureSchema(db); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO plan_events (ts, source, type, payload_json) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano),
		source,
		eventType,
		string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Tail returns the most recent n events, newest first.
func (l *Logger) Tail(n int) ([]Event, error) {
	if n <= 0 {
		n = 20
	}
	path := ""
	if l != nil {
		path = l.DBPath
	}
	resolved, err := resolveDBPath(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT id, ts, source, type, payload_json FROM plan_events ORDER BY id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []Event
	for rows.Next() {
		var ev Event
		var ts, payload string
		if err := rows.Scan(&ev.ID, &ts, &ev.Source, &ev.Type, &payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		parsed, parseErr := time.Parse(time.RFC3339Nano, ts)
		if parseErr == nil {
			ev.TS = parsed
		}
		ev.Payload = json.RawMessage(payload)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plan_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			source TEXT NOT NULL,
			type TEXT NOT NULL,
			payload_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

func resolveDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		dbPath = os.Getenv("SITEPLAN_AUDIT_DB")
	}
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("resolve audit db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure audit db dir: %w", err)
	}
	return absPath, nil
}
