package proof

import (
	"context"
	"fmt"
	"testing"
)

// selectiveStore delegates to an inner store but fails or panics for
// designated CIDs
type selectiveStore struct {
	inner    Store
	failCID  string
	panicCID string
}

func (s *selectiveStore) Put(ctx context.Context, data []byte) (string, error) {
	return s.inner.Put(ctx, data)
}

func (s *selectiveStore) Get(ctx context.Context, cid string) ([]byte, error) {
	if cid == s.panicCID {
		panic("store adapter blew up")
	}
	if cid == s.failCID {
		return nil, fmt.Errorf("get %s: %w", cid, ErrStoreUnreachable)
	}
	return s.inner.Get(ctx, cid)
}

func seedProofs(t *testing.T, store Store, ids ...string) []BatchItem {
	t.Helper()
	builder := NewBuilder(store)

	items := make([]BatchItem, len(ids))
	for i, id := range ids {
		created := builder.CreateProof(context.Background(), id, "Springfield")
		if !created.Success {
			t.Fatalf("Seed creation failed: %s", created.Error)
		}
		items[i] = BatchItem{CID: created.CID, ReportID: id}
	}
	return items
}

func TestBatchVerifier_OrderAndLength(t *testing.T) {
	store := NewMemoryStore()
	items := seedProofs(t, store, "r1", "r2", "r3", "r4", "r5")

	results := NewBatchVerifier(NewVerifier(store), 2).Verify(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.CID != items[i].CID {
			t.Errorf("Result %d out of position: %s vs %s", i, r.CID, items[i].CID)
		}
		if !r.Success || !r.IsValid {
			t.Errorf("Item %d should be valid: %+v", i, r)
		}
	}
}

func TestBatchVerifier_FailureIsolation(t *testing.T) {
	inner := NewMemoryStore()
	items := seedProofs(t, inner, "r1", "r2", "r3")

	store := &selectiveStore{inner: inner, failCID: items[1].CID}
	results := NewBatchVerifier(NewVerifier(store), 3).Verify(context.Background(), items)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !results[0].IsValid || !results[2].IsValid {
		t.Error("Siblings of a failing item must still verify")
	}
	if results[1].Success || results[1].IsValid {
		t.Error("The failing item must be marked failed")
	}
	if results[1].CID != items[1].CID {
		t.Error("Failure result must carry the original CID")
	}
}

func TestBatchVerifier_PanicIsolation(t *testing.T) {
	inner := NewMemoryStore()
	items := seedProofs(t, inner, "r1", "r2", "r3")

	store := &selectiveStore{inner: inner, panicCID: items[1].CID}
	results := NewBatchVerifier(NewVerifier(store), 3).Verify(context.Background(), items)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[1].Success {
		t.Error("Panicking slot must resolve to a failure result")
	}
	if results[1].Error == "" {
		t.Error("Panic failure must carry an explanation")
	}
	if !results[0].IsValid || !results[2].IsValid {
		t.Error("A panicking slot must not abort its siblings")
	}
}

func TestBatchVerifier_EmptyInput(t *testing.T) {
	results := NewBatchVerifier(NewVerifier(NewMemoryStore()), 4).Verify(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}
