// Package mockapi is a locally persisted simulation of the task
// backend. It emulates backend semantics (CRUD, pagination, fault
// injection, artificial latency) over a generic KV store so the
// gateway can run fully offline.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage"
)

// Config tunes the simulation.
type Config struct {
	// Latency is the artificial per-operation delay simulating network
	// round-trip time.
	Latency time.Duration `yaml:"latency"`
	// FailureRate is the probability in [0,1] that an operation raises
	// a synthetic transient fault. Tests force this to 0 or 1.
	FailureRate float64 `yaml:"failure_rate"`
	// Seed fixes the fault-injection RNG; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig mirrors a believable dev backend: small RTT, rare
// transient faults.
func DefaultConfig() Config {
	return Config{Latency: 50 * time.Millisecond, FailureRate: 0.05}
}

var errSynthetic = errors.New("simulated transport fault")

// Store simulates the remote task API on top of a storage.KV.
type Store struct {
	kv  storage.KV
	cfg Config

	rngMu sync.Mutex
	rng   *rand.Rand

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	// Pending verification codes never reach the durable store.
	codeMu sync.Mutex
	codes  map[string]string
}

// New builds a simulated backend over kv.
func New(kv storage.KV, cfg Config) *Store {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Store{
		kv:    kv,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		sleep: sleepCtx,
		now:   time.Now,
		codes: make(map[string]string),
	}
}

// NewWithClock is New with an injectable sleep and clock for tests.
func NewWithClock(
	kv storage.KV,
	cfg Config,
	sleep func(ctx context.Context, d time.Duration) error,
	now func() time.Time,
) *Store {
	s := New(kv, cfg)
	s.sleep = sleep
	s.now = now
	return s
}

// SetFailureRate adjusts fault injection at runtime.
func (s *Store) SetFailureRate(rate float64) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.cfg.FailureRate = rate
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

// simulate applies the artificial latency and rolls for a synthetic
// fault. Faults surface as NetworkError so upstream code cannot tell
// them from real transport failures.
func (s *Store) simulate(ctx context.Context, op string) error {
	if err := s.sleep(ctx, s.cfg.Latency); err != nil {
		return &domain.NetworkError{Op: op, Timeout: true, Err: err}
	}
	s.rngMu.Lock()
	rate := s.cfg.FailureRate
	roll := s.rng.Float64()
	s.rngMu.Unlock()
	if rate > 0 && roll < rate {
		return &domain.NetworkError{Op: op, Err: errSynthetic}
	}
	return nil
}

// Key layout: <collection>:<owner>:<id>, settings keyed per owner.
func taskKey(owner, id string) string     { return "tasks:" + owner + ":" + id }
func categoryKey(owner, id string) string { return "categories:" + owner + ":" + id }
func feedbackKey(owner, id string) string { return "feedback:" + owner + ":" + id }
func settingsKey(owner string) string     { return "settings:" + owner }

func (s *Store) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, b)
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	b, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// loadTasks reads every task owned by owner.
func (s *Store) loadTasks(ctx context.Context, owner string) ([]domain.Task, error) {
	keys, err := s.kv.Keys(ctx, "tasks:"+owner+":")
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(keys))
	for _, k := range keys {
		var t domain.Task
		if err := s.get(ctx, k, &t); err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// touch returns a mutation timestamp that never runs backwards
// relative to prev.
func (s *Store) touch(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

// CreateTask stores a new task with a fresh id.
func (s *Store) CreateTask(
	ctx context.Context,
	owner string,
	p domain.CreateTaskParams,
) (*domain.Task, error) {
	if err := s.simulate(ctx, "createTask"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSeed(ctx, owner); err != nil {
		return nil, err
	}

	priority := p.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	now := s.now()
	t := domain.Task{
		ID:          "task_" + uuid.New().String(),
		Title:       p.Title,
		Description: p.Description,
		Priority:    priority,
		CategoryID:  p.CategoryID,
		DueDate:     p.DueDate,
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.put(ctx, taskKey(owner, t.ID), t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTask returns one task or NotFoundError.
func (s *Store) GetTask(ctx context.Context, owner, id string) (*domain.Task, error) {
	if err := s.simulate(ctx, "getTask"); err != nil {
		return nil, err
	}
	var t domain.Task
	if err := s.get(ctx, taskKey(owner, id), &t); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id}
		}
		return nil, err
	}
	return &t, nil
}

// UpdateTask applies a partial update and refreshes UpdatedAt.
func (s *Store) UpdateTask(
	ctx context.Context,
	owner, id string,
	p domain.UpdateTaskParams,
) (*domain.Task, error) {
	if err := s.simulate(ctx, "updateTask"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var t domain.Task
	if err := s.get(ctx, taskKey(owner, id), &t); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id}
		}
		return nil, err
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	t.UpdatedAt = s.touch(t.UpdatedAt)

	if err := s.put(ctx, taskKey(owner, id), t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteTask marks a task done. Completing an already completed task
// is a no-op that still succeeds.
func (s *Store) CompleteTask(ctx context.Context, owner, id string) (*domain.Task, error) {
	completed := true
	return s.UpdateTask(ctx, owner, id, domain.UpdateTaskParams{Completed: &completed})
}

// DeleteTask removes a task permanently. There is no tombstone.
func (s *Store) DeleteTask(ctx context.Context, owner, id string) (*domain.Ack, error) {
	if err := s.simulate(ctx, "deleteTask"); err != nil {
		return nil, err
	}
	key := taskKey(owner, id)
	if _, err := s.kv.Get(ctx, key); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id}
		}
		return nil, err
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return nil, err
	}
	return &domain.Ack{Success: true, Message: "task deleted"}, nil
}

// BulkOperation completes or deletes the given task ids. Missing ids
// are skipped rather than failing the batch.
func (s *Store) BulkOperation(
	ctx context.Context,
	owner string,
	op domain.BulkOp,
	ids []string,
) (*domain.BulkResult, error) {
	if err := s.simulate(ctx, "bulkOperation"); err != nil {
		return nil, err
	}
	if op != domain.BulkComplete && op != domain.BulkDelete {
		return nil, &domain.ValidationError{
			Fields: map[string]string{"operation": "must be complete or delete"},
		}
	}

	updated := 0
	for _, id := range ids {
		key := taskKey(owner, id)
		var t domain.Task
		if err := s.get(ctx, key, &t); err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		switch op {
		case domain.BulkComplete:
			t.Completed = true
			t.UpdatedAt = s.touch(t.UpdatedAt)
			if err := s.put(ctx, key, t); err != nil {
				return nil, err
			}
		case domain.BulkDelete:
			if err := s.kv.Delete(ctx, key); err != nil {
				return nil, err
			}
		}
		updated++
	}
	return &domain.BulkResult{UpdatedCount: updated}, nil
}
