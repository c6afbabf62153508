package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreFirstRequestLocks(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check and set: %v", err)
	}
	if exists {
		t.Fatal("first request should not find an existing key")
	}
	if cached != nil {
		t.Fatalf("expected no cached response, got %s", cached)
	}
}

func TestIdempotencyStoreSecondRequestSeesResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("first check: %v", err)
	}

	response := []byte(`{"id":"settlement-1"}`)
	if err := store.Update(ctx, "key-1", response, time.Minute); err != nil {
		t.Fatalf("update: %v", err)
	}

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}
	if string(cached) != string(response) {
		t.Fatalf("expected stored response, got %s", cached)
	}
}

func TestIdempotencyStoreInFlightRequestReturnsPlaceholder(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("first check: %v", err)
	}

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !exists {
		t.Fatal("expected in-flight key to exist")
	}
	if string(cached) != inFlightMarker {
		t.Fatalf("expected in-flight marker, got %s", cached)
	}
}

func TestIdempotencyStoreKeyExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", []byte("resp"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Second)
	if err != nil {
		t.Fatalf("check after expiry: %v", err)
	}
	if exists {
		t.Fatal("expected key to have expired")
	}
}

func TestIdempotencyStoreNamespacesKeys(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", []byte("resp"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if !mr.Exists("tripledger:idem:key-1") {
		t.Fatal("expected key under the ledger idempotency namespace")
	}
}
