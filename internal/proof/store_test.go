package proof

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/civicgo/civicgo/internal/model"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	data := []byte(`{"report_id":"CG-RD-20241201-0001","timestamp":"2024-12-01T10:00:00Z","city":"Springfield"}`)

	cid, err := store.Put(context.Background(), data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if cid == "" {
		t.Fatal("Expected a CID")
	}

	got, err := store.Get(context.Background(), cid)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Content not byte-identical: %q vs %q", got, data)
	}
}

func TestMemoryStore_IdempotentPut(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("identical content")

	first, err := store.Put(context.Background(), data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, err := store.Put(context.Background(), data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if first != second {
		t.Errorf("Same bytes must yield the same CID: %s vs %s", first, second)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	missing := localCID([]byte("never stored"))

	_, err := store.Get(context.Background(), missing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_RoundTripAndIdempotence(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	data := []byte(`{"report_id":"r1","timestamp":"2025-01-01T00:00:00Z","city":"Austin"}`)

	first, err := store.Put(context.Background(), data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, err := store.Put(context.Background(), data)
	if err != nil {
		t.Fatalf("Second put failed: %v", err)
	}
	if first != second {
		t.Errorf("Same bytes must yield the same CID: %s vs %s", first, second)
	}

	got, err := store.Get(context.Background(), first)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Content not byte-identical after round trip")
	}
}

func TestDiskStore_DistinctContentDistinctCID(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	a, err := store.Put(context.Background(), []byte("content a"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	b, err := store.Put(context.Background(), []byte("content b"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if a == b {
		t.Error("Different bytes must not share a CID")
	}
}

func TestValidateCID(t *testing.T) {
	valid := []string{
		"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		localCID([]byte("anything")),
	}
	for _, cid := range valid {
		if err := ValidateCID(cid); err != nil {
			t.Errorf("Expected %q to be valid: %v", cid, err)
		}
	}

	invalid := []string{
		"",
		"not-a-cid",
		"Qmtooshort",
		"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG/../../etc/passwd",
		"bafy with spaces",
	}
	for _, cid := range invalid {
		if err := ValidateCID(cid); !errors.Is(err, ErrInvalidCID) {
			t.Errorf("Expected %q to be invalid", cid)
		}
	}
}

func TestNewStore_Kinds(t *testing.T) {
	if _, err := NewStore(model.StoreConfig{Kind: "memory"}); err != nil {
		t.Errorf("memory store: %v", err)
	}
	if _, err := NewStore(model.StoreConfig{Kind: "disk", Dir: t.TempDir()}); err != nil {
		t.Errorf("disk store: %v", err)
	}
	if _, err := NewStore(model.StoreConfig{Kind: "disk"}); err == nil {
		t.Error("disk store without dir must fail")
	}
	if _, err := NewStore(model.StoreConfig{Kind: "ipfs"}); err != nil {
		t.Errorf("ipfs store: %v", err)
	}
	if _, err := NewStore(model.StoreConfig{Kind: "s3"}); err == nil {
		t.Error("unknown store kind must fail")
	}
}

func TestUserMessage_DistinctPerCause(t *testing.T) {
	messages := map[string]string{
		"invalid":     UserMessage(ErrInvalidCID),
		"timeout":     UserMessage(ErrStoreTimeout),
		"unreachable": UserMessage(ErrStoreUnreachable),
		"notfound":    UserMessage(ErrNotFound),
	}

	seen := make(map[string]string)
	for cause, msg := range messages {
		if msg == "" {
			t.Errorf("Empty message for %s", cause)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("Causes %s and %s share a message: %q", cause, prev, msg)
		}
		seen[msg] = cause
	}
}
