package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLStore keeps session states in an SQLite database, one row per session.
type SQLStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type stateRow struct {
	ID        string        `db:"id"`
	Kind      string        `db:"kind"`
	System    string        `db:"system"`
	Variant   string        `db:"variant"`
	Members   string        `db:"members_json"`
	Selected  string        `db:"selected"`
	Index     int           `db:"day_index"`
	WeekStart sql.NullInt64 `db:"week_start"`
	UpdatedAt string        `db:"updated_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	system TEXT NOT NULL DEFAULT '',
	variant TEXT NOT NULL DEFAULT '',
	members_json TEXT NOT NULL DEFAULT '[]',
	selected TEXT NOT NULL DEFAULT '',
	day_index INTEGER NOT NULL,
	week_start INTEGER,
	updated_at TEXT NOT NULL
);`

// withPragmas appends the WAL and busy timeout options to dsn, keeping any
// query parameters it already carries.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_journal_mode=WAL&_busy_timeout=5000"
}

// NewSQLStore opens (and migrates) the SQLite database at dsn.
func NewSQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLStore{db: db, logger: logger}, nil
}

// Load reads the state of session id.
func (s *SQLStore) Load(ctx context.Context, id string) (*State, error) {
	var row stateRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	state := &State{
		ID:       row.ID,
		Kind:     Kind(row.Kind),
		System:   row.System,
		Variant:  row.Variant,
		Selected: row.Selected,
		Index:    row.Index,
	}
	if err := json.Unmarshal([]byte(row.Members), &state.Members); err != nil {
		return nil, fmt.Errorf("decode session members: %w", err)
	}
	if row.WeekStart.Valid {
		ws := int(row.WeekStart.Int64)
		state.WeekStart = &ws
	}
	if t, err := time.Parse(time.RFC3339Nano, row.UpdatedAt); err == nil {
		state.UpdatedAt = t
	}

	s.logger.Debug("Session state loaded",
		zap.String("session", id),
		zap.Int("index", state.Index))

	return state, nil
}

// Save inserts or replaces the state.
func (s *SQLStore) Save(ctx context.Context, state *State) error {
	members, err := json.Marshal(state.Members)
	if err != nil {
		return fmt.Errorf("encode session members: %w", err)
	}
	if state.Members == nil {
		members = []byte("[]")
	}

	row := stateRow{
		ID:        state.ID,
		Kind:      string(state.Kind),
		System:    state.System,
		Variant:   state.Variant,
		Members:   string(members),
		Selected:  state.Selected,
		Index:     state.Index,
		UpdatedAt: state.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if state.WeekStart != nil {
		row.WeekStart = sql.NullInt64{Int64: int64(*state.WeekStart), Valid: true}
	}

	query := `
		INSERT INTO sessions (id, kind, system, variant, members_json, selected, day_index, week_start, updated_at)
		VALUES (:id, :kind, :system, :variant, :members_json, :selected, :day_index, :week_start, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			system = excluded.system,
			variant = excluded.variant,
			members_json = excluded.members_json,
			selected = excluded.selected,
			day_index = excluded.day_index,
			week_start = excluded.week_start,
			updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug("Session state saved",
		zap.String("session", state.ID),
		zap.Int("index", state.Index))

	return nil
}

// Delete removes session id.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// List returns the stored session ids in lexical order.
func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM sessions ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
