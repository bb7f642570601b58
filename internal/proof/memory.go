package proof

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process content-addressed store for development and
// tests. Records never expire.
type MemoryStore struct {
	records *gocache.Cache
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: gocache.New(gocache.NoExpiration, 0),
	}
}

// Put stores data under its derived CID
func (s *MemoryStore) Put(ctx context.Context, data []byte) (string, error) {
	cid := localCID(data)
	s.records.Set(cid, append([]byte(nil), data...), gocache.NoExpiration)
	return cid, nil
}

// Get reads a record by CID
func (s *MemoryStore) Get(ctx context.Context, cid string) ([]byte, error) {
	if err := ValidateCID(cid); err != nil {
		return nil, err
	}

	val, found := s.records.Get(cid)
	if !found {
		return nil, fmt.Errorf("get %s: %w", cid, ErrNotFound)
	}
	return val.([]byte), nil
}
