package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/finsight/advisor-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS account_profiles (
	user_id    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS session_contexts (
	user_id    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS budgets (
	user_id    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS advice_log (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	query         TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	cost_usd      REAL NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_advice_log_user_id ON advice_log(user_id);
CREATE INDEX IF NOT EXISTS idx_advice_log_created_at ON advice_log(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*model.AccountProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM account_profiles WHERE user_id = ?`,
		userID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", userID)
	}

	var p model.AccountProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *model.AccountProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	data, err := json.Marshal(profile)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO account_profiles (user_id, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		profile.UserID, string(data), profile.CreatedAt, now,
	)
	return eris.Wrapf(err, "sqlite: save profile %s", profile.UserID)
}

func (s *SQLiteStore) SetProfileField(ctx context.Context, userID, field, value string) (*model.AccountProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.AccountProfile{UserID: userID}
	}

	if !model.ApplyExplicitEdit(profile, field, value, time.Now().UTC()) {
		return nil, eris.Errorf("sqlite: unknown profile field %q", field)
	}
	if err := s.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, userID string) (*model.SessionContext, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM session_contexts WHERE user_id = ?`,
		userID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get session %s", userID)
	}

	var sc model.SessionContext
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal session")
	}
	return &sc, nil
}

func (s *SQLiteStore) PutSession(ctx context.Context, session *model.SessionContext) error {
	now := time.Now().UTC()
	session.UpdatedAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal session")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_contexts (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		session.UserID, string(data), now,
	)
	return eris.Wrapf(err, "sqlite: put session %s", session.UserID)
}

func (s *SQLiteStore) ClearSession(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_contexts WHERE user_id = ?`,
		userID,
	)
	return eris.Wrapf(err, "sqlite: clear session %s", userID)
}

func (s *SQLiteStore) GetBudget(ctx context.Context, userID string) (*model.BudgetRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM budgets WHERE user_id = ?`,
		userID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get budget %s", userID)
	}

	var rec model.BudgetRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal budget")
	}
	return &rec, nil
}

func (s *SQLiteStore) PutBudget(ctx context.Context, record *model.BudgetRecord) error {
	now := time.Now().UTC()
	record.UpdatedAt = now

	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal budget")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		record.UserID, string(data), now,
	)
	return eris.Wrapf(err, "sqlite: put budget %s", record.UserID)
}

func (s *SQLiteStore) LogAdvice(ctx context.Context, entry model.AdviceLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	// Timestamps are stored as text, so they must share a zone to compare.
	entry.CreatedAt = entry.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO advice_log (id, user_id, query, model, input_tokens, output_tokens, cost_usd, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Query, entry.Model,
		entry.InputTokens, entry.OutputTokens, entry.CostUSD, entry.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: log advice")
}

func (s *SQLiteStore) AdviceStats(ctx context.Context, since time.Time) (AdviceStats, error) {
	var st AdviceStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0)
		 FROM advice_log WHERE created_at >= ?`,
		since.UTC(),
	).Scan(&st.Requests, &st.InputTokens, &st.OutputTokens, &st.CostUSD)
	return st, eris.Wrap(err, "sqlite: advice stats")
}

func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM account_profiles),
			(SELECT COUNT(*) FROM session_contexts),
			(SELECT COUNT(*) FROM budgets),
			(SELECT COUNT(*) FROM advice_log)`,
	).Scan(&c.Profiles, &c.Sessions, &c.Budgets, &c.Advice)
	return c, eris.Wrap(err, "sqlite: counts")
}
