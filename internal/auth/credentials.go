// Package auth holds tokens and the in-flight verification state the
// gateway needs for the sign-in flow.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage"
)

const credentialsKey = "credentials"

// CredentialStore persists the single session record. The pending
// phone of an unfinished sign-in never touches the durable store.
type CredentialStore struct {
	kv storage.KV

	mu      sync.RWMutex
	session *domain.Session
	loaded  bool

	pendingMu    sync.Mutex
	pendingPhone string
}

// NewCredentialStore wraps kv as the durable token store.
func NewCredentialStore(kv storage.KV) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Session returns the stored session, or nil when signed out.
func (c *CredentialStore) Session(ctx context.Context) (*domain.Session, error) {
	c.mu.RLock()
	if c.loaded {
		s := c.session
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.session, nil
	}

	b, err := c.kv.Get(ctx, credentialsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		c.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	c.session = &s
	c.loaded = true
	return c.session, nil
}

// Save persists a new session.
func (c *CredentialStore) Save(ctx context.Context, s *domain.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := c.kv.Set(ctx, credentialsKey, b); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Clear wipes the stored session. It succeeds locally even if the
// durable delete fails; local state wins on logout.
func (c *CredentialStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.loaded = true
	c.mu.Unlock()
	return c.kv.Delete(ctx, credentialsKey)
}

// AccessToken implements httpapi.TokenSource.
func (c *CredentialStore) AccessToken(ctx context.Context) string {
	s, err := c.Session(ctx)
	if err != nil || s == nil {
		return ""
	}
	return s.AccessToken
}

// RefreshToken returns the stored refresh token, or "" when signed out.
func (c *CredentialStore) RefreshToken(ctx context.Context) string {
	s, err := c.Session(ctx)
	if err != nil || s == nil {
		return ""
	}
	return s.RefreshToken
}

// SetPendingPhone records the phone awaiting code verification.
func (c *CredentialStore) SetPendingPhone(phone string) {
	c.pendingMu.Lock()
	c.pendingPhone = phone
	c.pendingMu.Unlock()
}

// PendingPhone returns the phone awaiting verification, or "".
func (c *CredentialStore) PendingPhone() string {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return c.pendingPhone
}

// ClearPendingPhone drops the transient sign-in state.
func (c *CredentialStore) ClearPendingPhone() {
	c.pendingMu.Lock()
	c.pendingPhone = ""
	c.pendingMu.Unlock()
}
