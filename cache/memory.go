package cache

import "sync"

const backendMemory = "memory"

// Memory is a process-local cache. The zero value is ready to use.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Get returns a copy of the record stored under key.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	data, ok := m.records[key]
	m.mu.RUnlock()
	observeGet(backendMemory, ok, nil)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data under key.
func (m *Memory) Set(key string, data []byte) error {
	m.mu.Lock()
	if m.records == nil {
		m.records = make(map[string][]byte)
	}
	m.records[key] = append([]byte(nil), data...)
	m.mu.Unlock()
	observeSet(backendMemory, len(data), nil)
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
