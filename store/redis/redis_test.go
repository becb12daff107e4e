package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RahulVervebot/pims-sub002/store"
)

var _ store.Backend = (*Backend)(nil)

func TestNewRequiresAddr(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestNewAddsDefaultPort(t *testing.T) {
	backend, err := New(Options{Addr: "cache"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer backend.Close()

	if got := backend.client.Options().Addr; got != "cache:6379" {
		t.Fatalf("addr = %q, want %q", got, "cache:6379")
	}
}

func TestNewParsesURL(t *testing.T) {
	backend, err := New(Options{Addr: "redis://localhost:6390/2"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer backend.Close()

	if got := backend.client.Options().DB; got != 2 {
		t.Fatalf("db = %d, want 2", got)
	}
}

func TestInitializeGivesUp(t *testing.T) {
	backend, err := New(Options{Addr: "127.0.0.1:1", MaxAttempts: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := backend.Initialize(ctx); err == nil {
		t.Fatal("expected initialize to fail against a closed port")
	}
}

// TestBackendAgainstServer needs a reachable server in POS_TEST_REDIS_ADDR.
func TestBackendAgainstServer(t *testing.T) {
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POS_TEST_REDIS_ADDR not set")
	}

	prefix := "pos-test:" + uuid.NewString() + ":"
	backend, err := New(Options{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	if err := backend.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() {
		backend.client.Del(context.Background(), prefix+"cart")
	})

	if _, found, err := backend.Get(ctx, "cart"); err != nil || found {
		t.Fatalf("get missing = (%v, %v), want (false, nil)", found, err)
	}
	if err := backend.Set(ctx, "cart", []byte(`[{"productId":"P1","quantity":2}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	s := store.New(backend)
	items, err := s.Load(ctx, "cart")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "P1" || items[0].Quantity != 2 {
		t.Fatalf("items = %+v", items)
	}
}
