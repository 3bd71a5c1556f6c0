// Package advice turns a user's stored context into model-generated
// financial guidance. The engine fetches profile, session, and budget
// concurrently, assembles the layered context block, and sends it with the
// user's question through a rate-limited, retried Claude call.
package advice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/finsight/advisor-cli/internal/advisor"
	"github.com/finsight/advisor-cli/internal/model"
	"github.com/finsight/advisor-cli/internal/resilience"
	"github.com/finsight/advisor-cli/internal/store"
	"github.com/finsight/advisor-cli/pkg/anthropic"
)

// Engine orchestrates advice generation.
type Engine struct {
	store     store.Store
	client    anthropic.Client
	limiter   *rate.Limiter
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
	now       func() time.Time // injectable for tests
}

// EngineOpts configures an Engine.
type EngineOpts struct {
	Model             string
	MaxTokens         int
	RequestsPerMinute int
	MaxRetries        int // retries after the first attempt
}

// NewEngine creates an advice engine backed by the given store and client.
func NewEngine(st store.Store, client anthropic.Client, opts EngineOpts) *Engine {
	rpm := opts.RequestsPerMinute
	if rpm < 1 {
		rpm = 30
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens < 1 {
		maxTokens = 1024
	}

	retry := resilience.DefaultRetryConfig()
	if opts.MaxRetries >= 0 {
		retry.MaxAttempts = opts.MaxRetries + 1
	}
	retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")

	return &Engine{
		store:     st,
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		model:     opts.Model,
		maxTokens: maxTokens,
		retry:     retry,
		now:       time.Now,
	}
}

// ContextInputs is everything the engine loads for one user.
type ContextInputs struct {
	Profile *model.AccountProfile
	Session *model.SessionContext
	Budget  *model.UnifiedBudgetModel
}

// FetchInputs loads the user's profile, session context, and budget
// concurrently. Missing records come back nil; only storage failures error.
func (e *Engine) FetchInputs(ctx context.Context, userID string) (*ContextInputs, error) {
	var in ContextInputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := e.store.GetProfile(gctx, userID)
		if err != nil {
			return err
		}
		in.Profile = p
		return nil
	})
	g.Go(func() error {
		s, err := e.store.GetSession(gctx, userID)
		if err != nil {
			return err
		}
		in.Session = s
		return nil
	})
	g.Go(func() error {
		b, err := e.store.GetBudget(gctx, userID)
		if err != nil {
			return err
		}
		if b != nil {
			in.Budget = &b.Budget
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, eris.Wrapf(err, "advice: fetch inputs for %s", userID)
	}
	return &in, nil
}

// Assembled pairs the sectioned context with its rendered prompt form.
type Assembled struct {
	Sections model.LayeredContextOutput `json:"sections"`
	Text     string                     `json:"text"`
}

// AssembleContext fetches a user's inputs and builds the layered context
// block for the given query.
func (e *Engine) AssembleContext(ctx context.Context, userID, userQuery string) (*Assembled, error) {
	in, err := e.FetchInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	hydrated := advisor.HydrateFoundationalContext(in.Profile, sessionFoundational(in.Session))
	out := advisor.BuildLayeredContextSection(hydrated, nil, in.Profile, in.Budget, userQuery, e.now())
	return &Assembled{Sections: out, Text: advisor.RenderSections(out)}, nil
}

// Result is one generated advice response.
type Result struct {
	Advice  string               `json:"advice"`
	Model   string               `json:"model"`
	Context string               `json:"context"`
	Usage   anthropic.TokenUsage `json:"usage"`
	CostUSD float64              `json:"cost_usd"`
}

// Advise assembles the user's layered context and asks the model the user's
// question grounded in it. The generation is logged for cost tracking; a
// logging failure does not fail the advice.
func (e *Engine) Advise(ctx context.Context, userID, query string) (*Result, error) {
	if query == "" {
		return nil, eris.New("advice: empty query")
	}

	in, err := e.FetchInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	hydrated := advisor.HydrateFoundationalContext(in.Profile, sessionFoundational(in.Session))
	contextBlock := advisor.BuildLayeredContextString(hydrated, nil, in.Profile, in.Budget, query, now)

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "advice: rate limit wait")
	}

	req := anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: contextBlock + "\n\n" + query},
		},
	}

	resp, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return e.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "advice: generate for %s", userID)
	}

	resp.Usage.LogCost(e.model, "advice")

	cost := resp.Usage.EstimateCost(e.model)
	entry := model.AdviceLogEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		Query:        query,
		Model:        e.model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		CostUSD:      cost,
		CreatedAt:    now,
	}
	if logErr := e.store.LogAdvice(ctx, entry); logErr != nil {
		zap.L().Warn("failed to log advice",
			zap.String("user_id", userID),
			zap.Error(logErr))
	}

	return &Result{
		Advice:  resp.Text(),
		Model:   e.model,
		Context: contextBlock,
		Usage:   resp.Usage,
		CostUSD: cost,
	}, nil
}

// WarmCache fires a primer request so the cached system prompt is written
// before the first real question. Failures are logged, not returned; a cold
// cache only costs money.
func (e *Engine) WarmCache(ctx context.Context) {
	req := anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 1,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages:  []anthropic.Message{{Role: "user", Content: "ping"}},
	}
	resp, err := anthropic.PrimerRequest(ctx, e.client, req)
	if err != nil {
		zap.L().Warn("cache primer failed", zap.Error(err))
		return
	}
	resp.Usage.LogCost(e.model, "primer")
}

func sessionFoundational(s *model.SessionContext) *model.FoundationalContext {
	if s == nil {
		return nil
	}
	return &s.Foundational
}
