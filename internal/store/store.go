package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned by Load when nothing is stored under a key
	ErrNotFound = errors.New("key not found")
)

// Memory keeps data in a map; nothing survives the process.
type Memory struct {
	lock sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in memory store
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

// Load returns a copy of the data under key
func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", key)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key
func (m *Memory) Save(ctx context.Context, key string, data []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key, if present
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.data, key)
	return nil
}

// Keys returns every stored key, sorted
func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
