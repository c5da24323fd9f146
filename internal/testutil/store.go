package testutil

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
)

// ErrInjectedStorage is what FailingStore returns for the failing call.
var ErrInjectedStorage = errors.New("injected storage failure")

// MemoryStore is an in-memory storage.ObjectStore.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	// DeleteErr, when set, is returned by every Delete.
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *MemoryStore) URL(key string) string { return "mem://" + key }

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

// Get returns the stored bytes for key.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

// Keys returns every stored key, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FailingStore wraps a MemoryStore and fails the FailOn-th Put (counting
// from 1). Other calls pass through.
type FailingStore struct {
	*MemoryStore
	FailOn int

	mu   sync.Mutex
	puts int
}

func NewFailingStore(failOn int) *FailingStore {
	return &FailingStore{MemoryStore: NewMemoryStore(), FailOn: failOn}
}

func (f *FailingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	f.puts++
	n := f.puts
	f.mu.Unlock()
	if n == f.FailOn {
		return ErrInjectedStorage
	}
	return f.MemoryStore.Put(ctx, key, r, size, contentType)
}

// Puts is the number of Put calls seen, failed ones included.
func (f *FailingStore) Puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}
