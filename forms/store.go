package forms

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// timeFormat is fixed width so created_at sorts as text in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	form_name   TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	message     TEXT NOT NULL,
	fields      TEXT NOT NULL,
	site        TEXT NOT NULL DEFAULT '',
	remote_addr TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_form_created ON submissions (form_name, created_at);
`

// Submission is one captured form post.
type Submission struct {
	ID         string
	FormName   string
	Name       string
	Email      string
	Message    string
	Fields     map[string]string
	Site       string
	RemoteAddr string
	UserAgent  string
	CreatedAt  time.Time
}

// Store persists submissions in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts sub. CreatedAt defaults to now.
func (s *Store) Save(ctx context.Context, sub Submission) error {
	if sub.ID == "" {
		return errors.New("submission id is required")
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	fields, err := json.Marshal(sub.Fields)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, form_name, name, email, message, fields, site, remote_addr, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.FormName, sub.Name, sub.Email, sub.Message, string(fields),
		sub.Site, sub.RemoteAddr, sub.UserAgent, sub.CreatedAt.UTC().Format(timeFormat),
	)
	return errors.Wrap(err, "insert submission")
}

// List returns the newest submissions of a form, at most limit.
func (s *Store) List(ctx context.Context, formName string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_name, name, email, message, fields, site, remote_addr, user_agent, created_at
		FROM submissions
		WHERE form_name = ?
		ORDER BY created_at DESC, id
		LIMIT ?`, formName, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query submissions")
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var (
			sub       Submission
			fields    string
			createdAt string
		)
		if err := rows.Scan(&sub.ID, &sub.FormName, &sub.Name, &sub.Email, &sub.Message, &fields,
			&sub.Site, &sub.RemoteAddr, &sub.UserAgent, &createdAt); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := json.Unmarshal([]byte(fields), &sub.Fields); err != nil {
			return nil, errors.Wrapf(err, "decode fields of %s", sub.ID)
		}
		if sub.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, errors.Wrapf(err, "decode created_at of %s", sub.ID)
		}
		out = append(out, sub)
	}
	return out, errors.WithStack(rows.Err())
}
