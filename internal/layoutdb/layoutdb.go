// Package layoutdb stores layout documents in a local SQLite library.
package layoutdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"venue-designer/internal/project"
)

// ErrNotFound is returned when no layout has the requested id.
var ErrNotFound = errors.New("layout not found")

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	seats    INTEGER NOT NULL DEFAULT 0,
	created  TEXT NOT NULL,
	modified TEXT NOT NULL,
	data     TEXT NOT NULL
)`

// Entry is a library listing row.
type Entry struct {
	ID       string
	Name     string
	Seats    int
	Created  time.Time
	Modified time.Time
}

// Library is a layout store backed by one SQLite file.
type Library struct {
	db *sql.DB
}

// Open opens (creating if needed) the library at path.
func Open(ctx context.Context, path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir library dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Library{db: db}, nil
}

// Close closes the database.
func (l *Library) Close() error {
	return l.db.Close()
}

// Save inserts or replaces doc. A document without an id is given a new one,
// which is returned.
func (l *Library) Save(ctx context.Context, doc *project.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Modified = time.Now()
	if doc.Created.IsZero() {
		doc.Created = doc.Modified
	}
	data, err := doc.Encode()
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO layouts (id, name, seats, created, modified, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			seats = excluded.seats,
			modified = excluded.modified,
			data = excluded.data
	`, doc.ID, doc.Name, doc.Stats().Seats, formatTime(doc.Created), formatTime(doc.Modified), string(data))
	if err != nil {
		return "", fmt.Errorf("save layout %s: %w", doc.ID, err)
	}
	return doc.ID, nil
}

// Load returns the layout with the given id.
func (l *Library) Load(ctx context.Context, id string) (*project.Document, error) {
	var data string
	err := l.db.QueryRowContext(ctx, `SELECT data FROM layouts WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return project.Decode([]byte(data))
}

// List returns every layout, most recently modified first.
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, seats, created, modified
		FROM layouts
		ORDER BY modified DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created, modified string
		if err := rows.Scan(&e.ID, &e.Name, &e.Seats, &created, &modified); err != nil {
			return nil, err
		}
		e.Created = parseTime(created)
		e.Modified = parseTime(modified)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the layout with the given id.
func (l *Library) Delete(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
