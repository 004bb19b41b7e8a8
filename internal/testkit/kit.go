// Package testkit provides shared fixtures for exercising the generation and
// verification engines: scripted confirmation prompts, deliberately failing
// factories and an in-memory collection store.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"structset/domain/design"
	"structset/domain/generate"
	"structset/ports"
)

// ScriptedConfirmer answers confirmation prompts from a fixed script, in
// order. Running past the script fails the prompt.
func ScriptedConfirmer(answers ...bool) ports.Confirmer {
	i := 0
	return func(prompt string) (bool, error) {
		if i >= len(answers) {
			return false, fmt.Errorf("unexpected confirmation prompt: %s", prompt)
		}
		answer := answers[i]
		i++
		return answer, nil
	}
}

// EchoRecord exposes its parameter record unchanged as attributes.
type EchoRecord struct {
	Params design.Params
}

// Attribute returns the parameter value of the same name.
func (r *EchoRecord) Attribute(name string) (interface{}, error) {
	v, ok := r.Params[name]
	if !ok {
		return nil, fmt.Errorf("report attribute %q is not available", name)
	}
	return v, nil
}

// EchoFactory produces EchoRecords. FailOn lists parameter values of FailKey
// whose construction should fail, for skip-accounting tests.
type EchoFactory struct {
	Attrs   []string
	FailKey string
	FailOn  map[interface{}]bool
}

// ReportAttributes advertises the declared attribute surface.
func (f *EchoFactory) ReportAttributes() []string {
	return f.Attrs
}

// New echoes the parameter record, failing where scripted.
func (f *EchoFactory) New(p design.Params) (generate.Record, error) {
	if f.FailKey != "" && f.FailOn[p[f.FailKey]] {
		return nil, fmt.Errorf("invalid geometry for %s=%v", f.FailKey, p[f.FailKey])
	}
	return &EchoRecord{Params: p}, nil
}

// MemoryRepository is an in-memory ports.CollectionRepository.
type MemoryRepository struct {
	mu          sync.Mutex
	Collections map[string][]map[string]interface{}
}

// NewMemoryRepository creates an empty in-memory collection store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{Collections: make(map[string][]map[string]interface{})}
}

func (m *MemoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Collections[name]
	return ok, nil
}

func (m *MemoryRepository) Create(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Collections[name]; !ok {
		m.Collections[name] = nil
	}
	return nil
}

func (m *MemoryRepository) Drop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Collections, name)
	return nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Collections))
	for name := range m.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, name string, records []map[string]interface{}) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Collections[name] = append(m.Collections[name], records...)
	return len(records), nil
}
