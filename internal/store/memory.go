package store

import (
	"context"
	"sync"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// MemoryStore keeps the encoded document in memory. Every Load returns a
// fresh copy, so unsaved mutations never leak between requests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns a MemoryStore seeded with articles.
func NewMemoryStore(articles ...*model.Article) *MemoryStore {
	s := &MemoryStore{}

	data, err := Encode(&model.Collection{Articles: articles})
	if err != nil {
		panic(err)
	}
	s.data = data

	return s
}

// NewMemoryStoreFromBytes seeds the store with a raw document, which does
// not have to be valid JSON.
func NewMemoryStoreFromBytes(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

func (s *MemoryStore) Load(ctx context.Context) (*model.Collection, error) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()

	return Decode(data)
}

func (s *MemoryStore) Save(ctx context.Context, c *model.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	return nil
}

// Bytes returns the last saved document.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]byte(nil), s.data...)
}
