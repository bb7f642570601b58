package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/civicgo/civicgo/internal/proof"
)

func buildItems(t *testing.T, store proof.Store, ids ...string) []proof.BatchItem {
	t.Helper()
	builder := proof.NewBuilder(store)

	items := make([]proof.BatchItem, len(ids))
	for i, id := range ids {
		created := builder.CreateProof(context.Background(), id, "Springfield")
		if !created.Success {
			t.Fatalf("Create proof failed: %s", created.Error)
		}
		items[i] = proof.BatchItem{CID: created.CID, ReportID: id}
	}
	return items
}

func TestFileProcessor_ProcessItemsPreservesOrder(t *testing.T) {
	store := proof.NewMemoryStore()
	items := buildItems(t, store, "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8")

	processor := NewFileProcessor(proof.NewVerifier(store), 4)
	results := processor.ProcessItems(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("Result %d missing", i)
		}
		if r.Index != i {
			t.Errorf("Result %d carries index %d", i, r.Index)
		}
		if r.Item.CID != items[i].CID {
			t.Errorf("Result %d out of position", i)
		}
		if r.GetError() != nil {
			t.Errorf("Result %d unexpectedly failed: %v", i, r.GetError())
		}
	}
}

func TestFileProcessor_LargeBatchSmallPool(t *testing.T) {
	store := proof.NewMemoryStore()
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = fmt.Sprintf("r%03d", i)
	}
	items := buildItems(t, store, ids...)

	processor := NewFileProcessor(proof.NewVerifier(store), 2)

	done := make(chan []*VerifyResult, 1)
	go func() {
		done <- processor.ProcessItems(context.Background(), items)
	}()

	var results []*VerifyResult
	select {
	case results = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Batch far larger than the pool buffer did not complete")
	}

	if len(results) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r == nil || r.Item.CID != items[i].CID {
			t.Fatalf("Result %d missing or out of position", i)
		}
		if r.GetError() != nil {
			t.Errorf("Result %d failed: %v", i, r.GetError())
		}
	}
}

func TestFileProcessor_MixedOutcomes(t *testing.T) {
	store := proof.NewMemoryStore()
	items := buildItems(t, store, "r1", "r2")

	// Tamper with the second item so its report-id check fails
	items[1].ReportID = "someone-else"

	processor := NewFileProcessor(proof.NewVerifier(store), 2)
	results := processor.ProcessItems(context.Background(), items)

	if results[0].GetError() != nil {
		t.Errorf("First item should verify: %v", results[0].GetError())
	}
	if results[1].GetError() == nil {
		t.Error("Second item should fail the report-id check")
	}
}

func TestFileProcessor_EmptyInput(t *testing.T) {
	processor := NewFileProcessor(proof.NewVerifier(proof.NewMemoryStore()), 2)
	results := processor.ProcessItems(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadItemsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proofs.txt")
	content := `# verified proofs
QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG

QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG, CG-RD-20260901-abcd1234
  QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := ReadItemsFromFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFromFile failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].ReportID != "" {
		t.Errorf("Bare CID line should have empty report id, got %q", items[0].ReportID)
	}
	if items[1].ReportID != "CG-RD-20260901-abcd1234" {
		t.Errorf("Expected parsed report id, got %q", items[1].ReportID)
	}
	if items[2].CID != "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG" {
		t.Errorf("Whitespace should be trimmed, got %q", items[2].CID)
	}
}

func TestReadItemsFromFile_Missing(t *testing.T) {
	if _, err := ReadItemsFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFileProcessor_ProcessFile(t *testing.T) {
	store := proof.NewMemoryStore()
	items := buildItems(t, store, "r1", "r2")

	path := filepath.Join(t.TempDir(), "batch.txt")
	content := items[0].CID + "," + items[0].ReportID + "\n" + items[1].CID + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewFileProcessor(proof.NewVerifier(store), 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.GetError() != nil {
			t.Errorf("Result %d failed: %v", i, r.GetError())
		}
	}
}
