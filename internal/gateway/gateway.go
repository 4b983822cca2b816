// Package gateway is the single entry point of the data-access layer.
// It routes each logical operation to either the simulated backend or
// the real HTTP transport, wraps every call in the retry engine, and
// recovers from authentication failure with one refresh-and-replay
// cycle.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sourabhrustagi/taskgate/internal/auth"
	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/httpapi"
	"github.com/sourabhrustagi/taskgate/internal/infra/mockapi"
	"github.com/sourabhrustagi/taskgate/internal/retry"
)

// Mode selects which backend serves requests. The two backing stores
// are independent datasets; switching mode migrates nothing.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeReal Mode = "real"
)

// Config holds gateway policy settings.
type Config struct {
	Mode Mode
	// Policy is the process-wide default retry policy applied to every
	// delegated call except token refresh.
	Policy retry.Policy
	// CallTimeout bounds each outbound attempt. A timed-out attempt is
	// abandoned and classified as a retryable transient error.
	CallTimeout time.Duration
}

// Gateway presents one contract to callers regardless of mode.
type Gateway struct {
	mock   *mockapi.Store
	real   *httpapi.Client
	creds  *auth.CredentialStore
	engine *retry.Engine

	policy      retry.Policy
	callTimeout time.Duration

	modeMu sync.RWMutex
	mode   Mode

	// A second concurrent 401 awaits the in-flight refresh instead of
	// starting another one.
	refreshGroup singleflight.Group
}

// New wires a gateway from its collaborators. mock and real may each
// be nil when the corresponding mode is never used.
func New(
	cfg Config,
	mock *mockapi.Store,
	real *httpapi.Client,
	creds *auth.CredentialStore,
) *Gateway {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeMock
	}
	policy := cfg.Policy
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy()
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Gateway{
		mock:        mock,
		real:        real,
		creds:       creds,
		engine:      retry.NewEngine(),
		policy:      policy,
		callTimeout: timeout,
		mode:        mode,
	}
}

// Mode returns the current routing mode.
func (g *Gateway) Mode() Mode {
	g.modeMu.RLock()
	defer g.modeMu.RUnlock()
	return g.mode
}

// SetMode switches routing at runtime.
func (g *Gateway) SetMode(mode Mode) {
	g.modeMu.Lock()
	g.mode = mode
	g.modeMu.Unlock()
	slog.Info("gateway mode switched", "mode", mode)
}

// owner resolves the record-space owner for mock-mode operations: the
// signed-in user when there is one, a fixed local owner otherwise.
func (g *Gateway) owner(ctx context.Context) string {
	if s, err := g.creds.Session(ctx); err == nil && s != nil && s.User.ID != "" {
		return s.User.ID
	}
	return "local"
}

// policyFor attaches per-operation observability hooks to the default
// policy.
func (g *Gateway) policyFor(op string) retry.Policy {
	p := g.policy
	userOnRetry := p.OnRetry
	p.OnRetry = func(err error, attempt int, delay time.Duration) {
		retriesTotal.WithLabelValues(op).Inc()
		slog.Debug("retrying operation",
			"op", op, "attempt", attempt, "delay", delay, "error", err)
		if userOnRetry != nil {
			userOnRetry(err, attempt, delay)
		}
	}
	userOnExhausted := p.OnExhausted
	p.OnExhausted = func(err error, attempts int) {
		slog.Warn("operation exhausted retries", "op", op, "attempts", attempts, "error", err)
		if userOnExhausted != nil {
			userOnExhausted(err, attempts)
		}
	}
	return p
}

// call routes one logical operation. The selected backend function is
// wrapped in the retry engine; in real mode an AuthenticationError
// triggers one token refresh followed by exactly one replay, and the
// replay is not itself retried. allowRefresh is false for the auth
// operations themselves.
func call[T any](
	ctx context.Context,
	g *Gateway,
	op string,
	allowRefresh bool,
	mockFn func(ctx context.Context) (T, error),
	realFn func(ctx context.Context) (T, error),
) (T, error) {
	mode := g.Mode()
	fn := mockFn
	if mode == ModeReal {
		fn = realFn
	}

	attempt := func(ctx context.Context) (T, error) {
		actx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
		return fn(actx)
	}

	start := time.Now()
	outcome := retry.Execute(ctx, g.engine, g.policyFor(op), attempt)
	requestDuration.WithLabelValues(op, string(mode)).Observe(time.Since(start).Seconds())

	if outcome.Success {
		requestsTotal.WithLabelValues(op, string(mode), "success").Inc()
		return outcome.Result, nil
	}

	var authErr *domain.AuthenticationError
	if allowRefresh && mode == ModeReal && errors.As(outcome.Err, &authErr) {
		if err := g.refresh(ctx); err != nil {
			requestsTotal.WithLabelValues(op, string(mode), "auth_failure").Inc()
			var zero T
			return zero, err
		}
		result, err := attempt(ctx)
		if err != nil {
			requestsTotal.WithLabelValues(op, string(mode), "error").Inc()
			var zero T
			return zero, err
		}
		requestsTotal.WithLabelValues(op, string(mode), "success").Inc()
		return result, nil
	}

	requestsTotal.WithLabelValues(op, string(mode), "error").Inc()
	var zero T
	return zero, outcome.Err
}

// refresh performs one token-refresh cycle, coalescing concurrent
// callers onto a single in-flight exchange. On failure the stored
// credentials are cleared and an AuthenticationError is returned.
func (g *Gateway) refresh(ctx context.Context) error {
	_, err, _ := g.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := g.creds.RefreshToken(ctx)
		if refreshToken == "" {
			return nil, &domain.AuthenticationError{Reason: "no refresh token stored"}
		}

		// Refresh itself is never retried.
		session, err := g.real.RefreshToken(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if session.User.ID == "" {
			if current, cerr := g.creds.Session(ctx); cerr == nil && current != nil {
				session.User = current.User
			}
		}
		if err := g.creds.Save(ctx, session); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		tokenRefreshTotal.WithLabelValues("failure").Inc()
		slog.Warn("token refresh failed, clearing credentials", "error", err)
		_ = g.creds.Clear(ctx)
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			return authErr
		}
		return &domain.AuthenticationError{Reason: "token refresh failed: " + err.Error()}
	}
	tokenRefreshTotal.WithLabelValues("success").Inc()
	slog.Info("token refreshed")
	return nil
}

// denormalize embeds category name/color into tasks served from the
// mock store, matching the wire shape of the real backend. A dangling
// CategoryID keeps its id with empty name/color.
func (g *Gateway) denormalize(ctx context.Context, owner string, tasks []*domain.Task) {
	cache := map[string]*domain.CategoryRef{}
	for _, t := range tasks {
		if t == nil || t.CategoryID == "" {
			continue
		}
		ref, ok := cache[t.CategoryID]
		if !ok {
			ref = &domain.CategoryRef{ID: t.CategoryID}
			if cat, err := g.mock.GetCategory(ctx, owner, t.CategoryID); err == nil {
				ref.Name = cat.Name
				ref.Color = cat.Color
			}
			cache[t.CategoryID] = ref
		}
		t.Category = ref
	}
}
