// Package sqlite persists the conversation log, journal entries, and the
// draft slot in a single local database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/confideai/confide-agent/internal/domain"
	"github.com/confideai/confide-agent/internal/observability"
)

// Store implements domain.MessageStore, domain.JournalStore, and
// domain.DraftStore over one sqlite file.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  session_id TEXT,
  author TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at TEXT NOT NULL,
  mood TEXT,
  is_crisis INTEGER NOT NULL DEFAULT 0,
  fallback INTEGER NOT NULL DEFAULT 0,
  seq INTEGER
);

CREATE TABLE IF NOT EXISTS journal_entries (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  created_at TEXT NOT NULL,
  mood TEXT NOT NULL,
  responses TEXT NOT NULL,
  summary TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS draft (
  slot INTEGER PRIMARY KEY CHECK (slot = 1),
  payload TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const timeLayout = time.RFC3339Nano

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	const stmt = `
INSERT INTO messages (id, session_id, author, text, created_at, mood, is_crisis, fallback, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages));
`
	_, err := s.db.ExecContext(ctx, stmt,
		string(msg.ID),
		string(msg.SessionID),
		string(msg.Author),
		msg.Text,
		msg.CreatedAt.Format(timeLayout),
		string(msg.Mood),
		boolToInt(msg.IsCrisis),
		boolToInt(msg.Fallback),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context) ([]*domain.Message, error) {
	const query = `
SELECT id, session_id, author, text, created_at, mood, is_crisis, fallback
FROM messages ORDER BY seq ASC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	log := observability.LoggerFromContext(ctx)
	var out []*domain.Message
	for rows.Next() {
		var (
			m                  domain.Message
			id, sid, author    string
			createdAt, mood    string
			isCrisis, fallback int
		)
		if err := rows.Scan(&id, &sid, &author, &m.Text, &createdAt, &mood, &isCrisis, &fallback); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		at, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			// Corrupt rows are skipped, not fatal.
			log.Warn("skipping message with unparseable timestamp", "id", id, "error", err)
			continue
		}
		m.ID = domain.MessageID(id)
		m.SessionID = domain.SessionID(sid)
		m.Author = domain.Role(author)
		m.CreatedAt = at
		m.Mood = domain.Mood(mood)
		m.IsCrisis = isCrisis != 0
		m.Fallback = fallback != 0
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *Store) ClearMessages(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

func (s *Store) UpsertEntry(ctx context.Context, entry *domain.JournalEntry) error {
	responses, err := json.Marshal(entry.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}

	const stmt = `
INSERT INTO journal_entries (id, date, created_at, mood, responses, summary)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  date=excluded.date,
  created_at=excluded.created_at,
  mood=excluded.mood,
  responses=excluded.responses,
  summary=excluded.summary;
`
	_, err = s.db.ExecContext(ctx, stmt,
		string(entry.ID),
		entry.Date.Format(timeLayout),
		entry.CreatedAt.Format(timeLayout),
		entry.Mood,
		string(responses),
		entry.Summary,
	)
	if err != nil {
		return fmt.Errorf("upsert journal entry: %w", err)
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	const query = `
SELECT id, date, created_at, mood, responses, summary
FROM journal_entries WHERE id = ?;
`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return entry, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id domain.JournalEntryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context) ([]*domain.JournalEntry, error) {
	const query = `
SELECT id, date, created_at, mood, responses, summary
FROM journal_entries ORDER BY date DESC, created_at DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	log := observability.LoggerFromContext(ctx)
	var out []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			log.Warn("skipping unreadable journal entry", "error", err)
			continue
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.JournalEntry, error) {
	var (
		e               domain.JournalEntry
		id              string
		date, createdAt string
		responses       string
	)
	if err := row.Scan(&id, &date, &createdAt, &e.Mood, &responses, &e.Summary); err != nil {
		return nil, err
	}

	var err error
	if e.Date, err = time.Parse(timeLayout, date); err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(responses), &e.Responses); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	e.ID = domain.JournalEntryID(id)
	if e.Mood == "" {
		e.Mood = domain.MoodUnknown
	}
	return &e, nil
}

func (s *Store) SaveDraft(ctx context.Context, draft *domain.DraftState) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	const stmt = `
INSERT INTO draft (slot, payload) VALUES (1, ?)
ON CONFLICT(slot) DO UPDATE SET payload=excluded.payload;
`
	if _, err := s.db.ExecContext(ctx, stmt, string(payload)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *Store) LoadDraft(ctx context.Context) (*domain.DraftState, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM draft WHERE slot = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft domain.DraftState
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		// An unreadable draft is reset rather than wedging the journal form.
		observability.LoggerFromContext(ctx).Warn("resetting corrupt draft slot", "error", err)
		if clearErr := s.ClearDraft(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, domain.ErrNoDraft
	}
	return &draft, nil
}

func (s *Store) ClearDraft(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM draft WHERE slot = 1`); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
