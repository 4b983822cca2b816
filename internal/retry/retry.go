// Package retry executes operations under a configurable backoff policy.
package retry

import (
	"context"
	"errors"
	"math"
	"net"
	"strings"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

// DefaultRetryableStatuses are the HTTP statuses treated as transient.
var DefaultRetryableStatuses = []int{408, 429, 500, 502, 503, 504}

// Policy defines retry behavior. A Policy is immutable once built; the
// package-level constructors cover the common shapes.
type Policy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64

	// RetryableStatuses overrides DefaultRetryableStatuses when non-nil.
	RetryableStatuses []int
	// RetryableMessages marks errors retryable by case-insensitive
	// substring match.
	RetryableMessages []string
	// Retryable is an extra predicate consulted after the built-in
	// classification.
	Retryable func(error) bool

	// OnRetry fires before each backoff sleep. OnExhausted fires once
	// when MaxAttempts is used up. Both are observability hooks only.
	OnRetry     func(err error, attempt int, delay time.Duration)
	OnExhausted func(err error, attempts int)
}

// DefaultPolicy provides sensible process-wide defaults.
func DefaultPolicy() Policy {
	return Exponential(3, 500*time.Millisecond, 30*time.Second)
}

// Exponential builds a policy whose delay doubles between attempts.
func Exponential(maxAttempts int, baseDelay, maxDelay time.Duration) Policy {
	return Policy{
		MaxAttempts:       maxAttempts,
		BaseDelay:         baseDelay,
		MaxDelay:          maxDelay,
		BackoffMultiplier: 2.0,
	}
}

// Linear builds a policy with a constant delay between attempts.
func Linear(maxAttempts int, delay time.Duration) Policy {
	return Policy{
		MaxAttempts:       maxAttempts,
		BaseDelay:         delay,
		MaxDelay:          delay,
		BackoffMultiplier: 1.0,
	}
}

// Immediate builds a policy that resubmits without sleeping, still
// bounded by maxAttempts.
func Immediate(maxAttempts int) Policy {
	return Policy{MaxAttempts: maxAttempts, BackoffMultiplier: 1.0}
}

// Delay returns the backoff before resubmitting after failed attempt
// number attempt (1-based): min(BaseDelay * Multiplier^(attempt-1), MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	mult := p.BackoffMultiplier
	if mult <= 0 {
		mult = 1
	}
	d := float64(p.BaseDelay) * math.Pow(mult, float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// classify reports whether err is eligible for another attempt.
func (p Policy) classify(err error) bool {
	if err == nil {
		return false
	}

	// Expected failure modes never retry.
	var nf *domain.NotFoundError
	var val *domain.ValidationError
	var auth *domain.AuthenticationError
	if errors.As(err, &nf) || errors.As(err, &val) || errors.As(err, &auth) {
		return false
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr net.Error
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}

	if status := domain.StatusCode(err); status != 0 {
		statuses := p.RetryableStatuses
		if statuses == nil {
			statuses = DefaultRetryableStatuses
		}
		for _, s := range statuses {
			if status == s {
				return true
			}
		}
	}

	if len(p.RetryableMessages) > 0 {
		msg := strings.ToLower(err.Error())
		for _, sub := range p.RetryableMessages {
			if strings.Contains(msg, strings.ToLower(sub)) {
				return true
			}
		}
	}

	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return false
}

// Outcome is the result of one Execute invocation. Exactly one of
// Result or Err is meaningful, selected by Success.
type Outcome[T any] struct {
	Success  bool
	Result   T
	Err      error
	Attempts int
	Elapsed  time.Duration
}

// Get unpacks the outcome into Go's usual (value, error) shape.
func (o Outcome[T]) Get() (T, error) {
	if o.Success {
		return o.Result, nil
	}
	return o.Result, o.Err
}

// Engine runs operations under a Policy. The zero value is not usable;
// construct with NewEngine. Sleeping is the engine's only suspension
// point, and the sleep function is injectable for tests.
type Engine struct {
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewEngine returns an engine backed by the real clock.
func NewEngine() *Engine {
	return &Engine{sleep: sleepCtx, now: time.Now}
}

// NewEngineWithClock returns an engine with a caller-supplied sleep and
// clock, for deterministic backoff assertions.
func NewEngineWithClock(
	sleep func(ctx context.Context, d time.Duration) error,
	now func() time.Time,
) *Engine {
	return &Engine{sleep: sleep, now: now}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Execute calls op up to p.MaxAttempts times, sleeping p.Delay(i)
// between attempt i and i+1 when the error classifies retryable.
// Non-retryable errors short-circuit with the attempts consumed so far.
// On exhaustion the outcome carries a RetryExhaustedError wrapping the
// last underlying error. Execute never panics; surfacing the terminal
// error is the caller's choice.
func Execute[T any](
	ctx context.Context,
	e *Engine,
	p Policy,
	op func(ctx context.Context) (T, error),
) Outcome[T] {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	start := e.now()
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return Outcome[T]{
				Success:  true,
				Result:   result,
				Attempts: attempt,
				Elapsed:  e.now().Sub(start),
			}
		}
		lastErr = err

		if !p.classify(err) {
			return Outcome[T]{
				Success:  false,
				Result:   zero,
				Err:      err,
				Attempts: attempt,
				Elapsed:  e.now().Sub(start),
			}
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(err, attempt, delay)
		}
		if err := e.sleep(ctx, delay); err != nil {
			return Outcome[T]{
				Success:  false,
				Result:   zero,
				Err:      err,
				Attempts: attempt,
				Elapsed:  e.now().Sub(start),
			}
		}
	}

	if p.OnExhausted != nil {
		p.OnExhausted(lastErr, p.MaxAttempts)
	}
	return Outcome[T]{
		Success:  false,
		Result:   zero,
		Err: &domain.RetryExhaustedError{
			Attempts: p.MaxAttempts,
			Elapsed:  e.now().Sub(start),
			Err:      lastErr,
		},
		Attempts: p.MaxAttempts,
		Elapsed:  e.now().Sub(start),
	}
}
