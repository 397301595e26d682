package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory implements Store on process-local maps. Scans return records in
// insertion order. Used by tests and for running without a database.
type Memory struct {
	mu    sync.Mutex
	data  map[string]map[string]json.RawMessage
	order map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		data:  make(map[string]map[string]json.RawMessage),
		order: make(map[string][]string),
	}
}

func (m *Memory) Create(ctx context.Context, collection, id string, fields interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		coll = make(map[string]json.RawMessage)
		m.data[collection] = coll
	}
	if _, exists := coll[id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	coll[id] = data
	return nil
}

func (m *Memory) Get(ctx context.Context, collection, id string, dest interface{}) error {
	m.mu.Lock()
	data, ok := m.data[collection][id]
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields interface{}) error {
	m.mu.Lock()
	_, ok := m.data[collection][id]
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return m.Create(ctx, collection, id, fields)
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[collection], id)
	ids := m.order[collection]
	for i, existing := range ids {
		if existing == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Scan(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []Record
	for _, id := range m.order[collection] {
		raw := m.data[collection][id]
		if filter.Field != "" && !matchesFilter(raw, filter) {
			continue
		}
		records = append(records, Record{ID: id, Fields: raw})
	}
	return records, nil
}

func matchesFilter(raw json.RawMessage, filter Filter) bool {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}

	want, err := json.Marshal(filter.Equals)
	if err != nil {
		return false
	}
	got, err := json.Marshal(fields[filter.Field])
	if err != nil {
		return false
	}
	return string(want) == string(got)
}
