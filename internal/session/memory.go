package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Values are stored encoded so a
// caller mutating a *Data never touches the stored copy.
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, ttl/2), ttl: ttl}
}

func (s *MemoryStore) Create(ctx context.Context) (*Data, error) {
	d := newData(s.ttl)
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	v, ok := s.cache.Get(key(id))
	if !ok {
		return nil, notFound(id)
	}
	return decode(v.([]byte))
}

func (s *MemoryStore) Save(_ context.Context, d *Data) error {
	d.ExpiresAt = time.Now().UTC().Add(s.ttl)
	b, err := encode(d)
	if err != nil {
		return err
	}
	s.cache.Set(key(d.ID), b, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(key(id))
	return nil
}
