package memory

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/sourabhrustagi/taskgate/internal/infra/storage"
)

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrKeyNotFound", err)
	}

	if err := kv.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	v, err := kv.Get(ctx, "a")
	if err != nil || string(v) != "1" {
		t.Fatalf("Get(a) = (%q, %v), want (1, nil)", v, err)
	}

	// Mutating the returned slice must not affect the stored value.
	v[0] = 'x'
	v2, _ := kv.Get(ctx, "a")
	if string(v2) != "1" {
		t.Errorf("stored value mutated through returned slice: %q", v2)
	}

	if err := kv.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, "a"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get after Delete err = %v, want ErrKeyNotFound", err)
	}
}

func TestKVKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()
	for _, k := range []string{"tasks:u1:a", "tasks:u1:b", "tasks:u2:c", "categories:u1:d"} {
		if err := kv.Set(ctx, k, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := kv.Keys(ctx, "tasks:u1:")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	want := []string{"tasks:u1:a", "tasks:u1:b"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
