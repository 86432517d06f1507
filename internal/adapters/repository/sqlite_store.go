package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/ivtrack/internal/adapters/codec"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/metrics"
)

// SQLiteStore keeps one row per timeline. The event history is stored as
// the codec JSON document; species and nickname are copied into columns
// for ad-hoc queries.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at filePath.
func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	st := &SQLiteStore{db: db}
	if err := st.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	metrics.UpdateTimelinesStored(st.Count(context.Background()))
	return st, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, t *timeline.Timeline) (err error) {
	defer func() { observe(opSave, err) }()
	if err := checkTimeline(t); err != nil {
		return err
	}
	payload, err := codec.Encode(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO timelines
		(id, species, nickname, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Species(),
		t.Nickname,
		toTS(t.CreatedAt),
		toTS(t.UpdatedAt),
		string(payload),
	)
	if err != nil {
		return err
	}
	metrics.UpdateTimelinesStored(s.Count(ctx))
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (_ *timeline.Timeline, err error) {
	defer func() { observe(opGet, err) }()
	var payload string
	err = s.db.QueryRowContext(ctx, `SELECT payload FROM timelines WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return codec.Decode([]byte(payload))
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) (_ []*timeline.Timeline, err error) {
	defer func() { observe(opList, err) }()
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM timelines`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*timeline.Timeline, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		t, err := codec.Decode([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTimelines(out)
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe(opDelete, err) }()
	res, err := s.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	metrics.UpdateTimelinesStored(s.Count(ctx))
	return nil
}

// Count implements Store. A failed query counts as zero.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timelines`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS timelines (
			id TEXT PRIMARY KEY,
			species TEXT NOT NULL,
			nickname TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_timelines_species ON timelines(species);
	`)
	return err
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
