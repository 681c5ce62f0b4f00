package requeststore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/ykhdr/dictcrack/internal/messages/request"
)

var ErrNotFound = errors.New("request not found")

type RequestStore interface {
	Get(ctx context.Context, id request.Id) (*request.Info, error)
	Save(ctx context.Context, req *request.Info) error
	Delete(ctx context.Context, id request.Id) error
}

type memoryStore struct {
	m    sync.RWMutex
	data map[request.Id]*request.Info
}

// NewMemoryStore keeps requests in process memory only.
func NewMemoryStore() RequestStore {
	return &memoryStore{data: make(map[request.Id]*request.Info)}
}

func (s *memoryStore) Get(_ context.Context, id request.Id) (*request.Info, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	req, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return req.Copy(), nil
}

func (s *memoryStore) Save(_ context.Context, req *request.Info) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.data[req.ID] = req.Copy()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id request.Id) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}
