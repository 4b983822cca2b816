package auth

import (
	"context"
	"testing"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage/memory"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	store := NewCredentialStore(kv)

	if s, err := store.Session(ctx); err != nil || s != nil {
		t.Fatalf("empty store Session = (%v, %v), want (nil, nil)", s, err)
	}
	if tok := store.AccessToken(ctx); tok != "" {
		t.Errorf("AccessToken on empty store = %q, want empty", tok)
	}

	session := &domain.Session{
		User:         domain.User{ID: "u1", Phone: "+15550001111"},
		AccessToken:  "acc",
		RefreshToken: "ref",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	if tok := store.AccessToken(ctx); tok != "acc" {
		t.Errorf("AccessToken = %q, want acc", tok)
	}
	if tok := store.RefreshToken(ctx); tok != "ref" {
		t.Errorf("RefreshToken = %q, want ref", tok)
	}

	// A fresh store over the same KV must see the persisted session.
	reopened := NewCredentialStore(kv)
	s, err := reopened.Session(ctx)
	if err != nil || s == nil || s.User.ID != "u1" {
		t.Fatalf("reopened Session = (%+v, %v), want persisted session", s, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Session(ctx); s != nil {
		t.Errorf("Session after Clear = %+v, want nil", s)
	}
	if s, _ := NewCredentialStore(kv).Session(ctx); s != nil {
		t.Errorf("durable session after Clear = %+v, want nil", s)
	}
}

func TestPendingPhoneIsTransient(t *testing.T) {
	kv := memory.NewKV()
	store := NewCredentialStore(kv)

	store.SetPendingPhone("+15550001111")
	if got := store.PendingPhone(); got != "+15550001111" {
		t.Fatalf("PendingPhone = %q", got)
	}

	keys, err := kv.Keys(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("pending phone leaked into durable store: %v", keys)
	}

	store.ClearPendingPhone()
	if got := store.PendingPhone(); got != "" {
		t.Errorf("PendingPhone after clear = %q, want empty", got)
	}
}
