// Package history is the opaque local history sink backed by SQLite (spec
// §1 "the on-disk SQLite schema management... treated as a black-box
// history sink"). It deliberately avoids schema management: one fixed
// CREATE TABLE IF NOT EXISTS, no migrations.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded command, as surfaced by list_recent_commands.
type Entry struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	ExitCode    int       `json:"exitCode"`
	CompletedAt time.Time `json:"completedAt"`
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS command_history (
	id TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	exit_code INTEGER NOT NULL,
	completed_at TEXT NOT NULL
)`

// Sink is the opaque append-only history store.
type Sink struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the SQLite history database at path.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure history table: %w", err)
	}
	return &Sink{db: db, path: path}, nil
}

// Record appends one completed command to history.
func (s *Sink) Record(id, command string, exitCode int, completed time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO command_history (id, command, exit_code, completed_at) VALUES (?, ?, ?, ?)`,
		id, command, exitCode, completed.UTC().Format(time.RFC3339),
	)
	return err
}

// RecentExitCodes returns the exit codes of the n most recently completed
// commands, newest first — used by the health self-check's recent-error
// rate (spec §4.11).
func (s *Sink) RecentExitCodes(n int) ([]int, error) {
	rows, err := s.db.Query(`SELECT exit_code FROM command_history ORDER BY completed_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []int
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ListRecent returns the most recent completed commands, newest first,
// optionally filtered by status ("success"/"failed", "" or "all" for no
// filter) and by a substring search over the command text. Backs
// list_recent_commands (spec §6).
func (s *Sink) ListRecent(limit int, status, search string) ([]Entry, error) {
	query := `SELECT id, command, exit_code, completed_at FROM command_history WHERE 1=1`
	var args []interface{}

	switch status {
	case "success":
		query += ` AND exit_code = 0`
	case "failed":
		query += ` AND exit_code != 0`
	}
	if search != "" {
		query += ` AND command LIKE ?`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY completed_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completed string
		if err := rows.Scan(&e.ID, &e.Command, &e.ExitCode, &completed); err != nil {
			return nil, err
		}
		e.CompletedAt, _ = time.Parse(time.RFC3339, completed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reachable reports whether the history database can be queried.
func (s *Sink) Reachable() bool {
	return s.db.Ping() == nil
}

// Size returns the on-disk size of the history database in bytes.
func (s *Sink) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close releases the underlying database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}
