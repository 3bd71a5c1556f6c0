package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetProfile_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM account_profiles WHERE user_id = \$1`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProfile_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	data := []byte(`{"user_id":"user-1","primary_goal":"debt_free","metadata":{"primary_goal":{"source":"explicit","confidence":"high"}}}`)
	mock.ExpectQuery(`SELECT data FROM account_profiles WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	got, err := s.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.PrimaryGoal)
	assert.Equal(t, "debt_free", *got.PrimaryGoal)
	assert.Equal(t, model.SourceExplicit, got.Metadata[model.FieldPrimaryGoal].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveProfile_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO account_profiles .* ON CONFLICT`).
		WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveProfile(context.Background(), &model.AccountProfile{UserID: "user-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetProfileField_UnknownField(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM account_profiles WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.SetProfileField(context.Background(), "user-1", "favorite_color", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile field")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetProfileField_CreatesAndSaves(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM account_profiles WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO account_profiles .* ON CONFLICT`).
		WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	updated, err := s.SetProfileField(context.Background(), "user-1", model.FieldGoalTimeline, "long")
	require.NoError(t, err)
	require.NotNil(t, updated.GoalTimeline)
	assert.Equal(t, "long", *updated.GoalTimeline)
	assert.Equal(t, model.ConfidenceHigh, updated.Metadata[model.FieldGoalTimeline].Confidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutSession_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO session_contexts .* ON CONFLICT`).
		WithArgs("user-4", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.PutSession(context.Background(), &model.SessionContext{UserID: "user-4"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ClearSession(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM session_contexts WHERE user_id = \$1`).
		WithArgs("user-4").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.ClearSession(context.Background(), "user-4")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBudget_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM budgets WHERE user_id = \$1`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetBudget(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LogAdvice_Insert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO advice_log`).
		WithArgs(pgxmock.AnyArg(), "user-7", "What should I do first?", "claude-sonnet-4-5-20250929",
			int64(1200), int64(300), 0.0081, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.LogAdvice(context.Background(), model.AdviceLogEntry{
		UserID:       "user-7",
		Query:        "What should I do first?",
		Model:        "claude-sonnet-4-5-20250929",
		InputTokens:  1200,
		OutputTokens: 300,
		CostUSD:      0.0081,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AdviceStats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(input_tokens\), 0\)`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"requests", "input", "output", "cost"}).
			AddRow(2, int64(2400), int64(600), 0.0162))

	stats, err := s.AdviceStats(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, AdviceStats{Requests: 2, InputTokens: 2400, OutputTokens: 600, CostUSD: 0.0162}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Counts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM account_profiles`).
		WillReturnRows(pgxmock.NewRows([]string{"profiles", "sessions", "budgets", "advice"}).
			AddRow(3, 1, 2, 5))

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Profiles: 3, Sessions: 1, Budgets: 2, Advice: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
