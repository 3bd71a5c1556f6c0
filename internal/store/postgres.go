package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/finsight/advisor-cli/internal/db"
	"github.com/finsight/advisor-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_profile":  `SELECT data FROM account_profiles WHERE user_id = $1`,
	"save_profile": `INSERT INTO account_profiles (user_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $4`,
	"get_session":  `SELECT data FROM session_contexts WHERE user_id = $1`,
	"put_session":  `INSERT INTO session_contexts (user_id, data, updated_at) VALUES ($1, $2, $3) ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $3`,
	"get_budget":   `SELECT data FROM budgets WHERE user_id = $1`,
	"put_budget":   `INSERT INTO budgets (user_id, data, updated_at) VALUES ($1, $2, $3) ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $3`,
	"log_advice":   `INSERT INTO advice_log (id, user_id, query, model, input_tokens, output_tokens, cost_usd, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"advice_stats": `SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0) FROM advice_log WHERE created_at >= $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS account_profiles (
	user_id    TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS session_contexts (
	user_id    TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS budgets (
	user_id    TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS advice_log (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id       TEXT NOT NULL,
	query         TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  BIGINT NOT NULL DEFAULT 0,
	output_tokens BIGINT NOT NULL DEFAULT 0,
	cost_usd      DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_advice_log_user_id ON advice_log(user_id);
CREATE INDEX IF NOT EXISTS idx_advice_log_created_at ON advice_log(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*model.AccountProfile, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM account_profiles WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get profile %s", userID)
	}

	var p model.AccountProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	return &p, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, profile *model.AccountProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	data, err := json.Marshal(profile)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal profile")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO account_profiles (user_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $4`,
		profile.UserID, data, profile.CreatedAt, now,
	)
	return eris.Wrapf(err, "postgres: save profile %s", profile.UserID)
}

func (s *PostgresStore) SetProfileField(ctx context.Context, userID, field, value string) (*model.AccountProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.AccountProfile{UserID: userID}
	}

	if !model.ApplyExplicitEdit(profile, field, value, time.Now().UTC()) {
		return nil, eris.Errorf("postgres: unknown profile field %q", field)
	}
	if err := s.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *PostgresStore) GetSession(ctx context.Context, userID string) (*model.SessionContext, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM session_contexts WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get session %s", userID)
	}

	var sc model.SessionContext
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal session")
	}
	return &sc, nil
}

func (s *PostgresStore) PutSession(ctx context.Context, session *model.SessionContext) error {
	now := time.Now().UTC()
	session.UpdatedAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal session")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_contexts (user_id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $3`,
		session.UserID, data, now,
	)
	return eris.Wrapf(err, "postgres: put session %s", session.UserID)
}

func (s *PostgresStore) ClearSession(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM session_contexts WHERE user_id = $1`,
		userID,
	)
	return eris.Wrapf(err, "postgres: clear session %s", userID)
}

func (s *PostgresStore) GetBudget(ctx context.Context, userID string) (*model.BudgetRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM budgets WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get budget %s", userID)
	}

	var rec model.BudgetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal budget")
	}
	return &rec, nil
}

func (s *PostgresStore) PutBudget(ctx context.Context, record *model.BudgetRecord) error {
	now := time.Now().UTC()
	record.UpdatedAt = now

	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal budget")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO budgets (user_id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET data = $2, updated_at = $3`,
		record.UserID, data, now,
	)
	return eris.Wrapf(err, "postgres: put budget %s", record.UserID)
}

func (s *PostgresStore) LogAdvice(ctx context.Context, entry model.AdviceLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO advice_log (id, user_id, query, model, input_tokens, output_tokens, cost_usd, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, entry.Query, entry.Model,
		entry.InputTokens, entry.OutputTokens, entry.CostUSD, entry.CreatedAt,
	)
	return eris.Wrap(err, "postgres: log advice")
}

func (s *PostgresStore) AdviceStats(ctx context.Context, since time.Time) (AdviceStats, error) {
	var st AdviceStats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0)
		 FROM advice_log WHERE created_at >= $1`,
		since.UTC(),
	).Scan(&st.Requests, &st.InputTokens, &st.OutputTokens, &st.CostUSD)
	return st, eris.Wrap(err, "postgres: advice stats")
}

func (s *PostgresStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM account_profiles),
			(SELECT COUNT(*) FROM session_contexts),
			(SELECT COUNT(*) FROM budgets),
			(SELECT COUNT(*) FROM advice_log)`,
	).Scan(&c.Profiles, &c.Sessions, &c.Budgets, &c.Advice)
	return c, eris.Wrap(err, "postgres: counts")
}
