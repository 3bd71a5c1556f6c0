package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/finsight/advisor-cli/internal/model"
)

// Counts summarizes stored records for the status command.
type Counts struct {
	Profiles int `json:"profiles"`
	Sessions int `json:"sessions"`
	Budgets  int `json:"budgets"`
	Advice   int `json:"advice"`
}

// AdviceStats summarizes advice generations since a cutoff time.
type AdviceStats struct {
	Requests     int     `json:"requests"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Store defines the persistence interface for advisor context data.
type Store interface {
	// Profiles
	GetProfile(ctx context.Context, userID string) (*model.AccountProfile, error)
	SaveProfile(ctx context.Context, profile *model.AccountProfile) error
	SetProfileField(ctx context.Context, userID, field, value string) (*model.AccountProfile, error)

	// Session context
	GetSession(ctx context.Context, userID string) (*model.SessionContext, error)
	PutSession(ctx context.Context, session *model.SessionContext) error
	ClearSession(ctx context.Context, userID string) error

	// Budgets
	GetBudget(ctx context.Context, userID string) (*model.BudgetRecord, error)
	PutBudget(ctx context.Context, record *model.BudgetRecord) error

	// Advice log
	LogAdvice(ctx context.Context, entry model.AdviceLogEntry) error
	AdviceStats(ctx context.Context, since time.Time) (AdviceStats, error)
	Counts(ctx context.Context) (Counts, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver. The pool config is only
// consulted by the postgres driver and may be nil.
func Open(ctx context.Context, driver, dsn string, pool *PoolConfig) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, pool)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
