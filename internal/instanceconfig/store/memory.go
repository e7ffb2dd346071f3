package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"crmkit/internal/instanceconfig/models"
	"crmkit/pkg/platform/sentinel"
)

// InMemory keeps instances, overrides, and defaults in process memory.
// It intentionally favors clarity over performance and doubles as the test
// substitute for the PostgreSQL store.
type InMemory struct {
	mu        sync.RWMutex
	instances map[string]*models.Instance
	overrides map[uuid.UUID][]models.PropertyOverride
	defaults  map[string]string
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		instances: make(map[string]*models.Instance),
		overrides: make(map[uuid.UUID][]models.PropertyOverride),
		defaults:  make(map[string]string),
	}
}

// AddInstance registers an instance. Names are matched exactly; registering
// the same name twice returns ErrConflict.
func (s *InMemory) AddInstance(_ context.Context, instance *models.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.instances[instance.Name]; exists {
		return fmt.Errorf("add instance %q: %w", instance.Name, sentinel.ErrConflict)
	}
	copied := *instance
	s.instances[instance.Name] = &copied
	return nil
}

// AddOverride appends an override row. Duplicate (instance, key) rows are
// allowed; lookups consult the first match.
func (s *InMemory) AddOverride(_ context.Context, override models.PropertyOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[override.InstanceID] = append(s.overrides[override.InstanceID], override)
	return nil
}

// SetDefault sets the global default for a key, replacing any existing row.
func (s *InMemory) SetDefault(_ context.Context, def models.PropertyDefault) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[def.Key] = def.Value
	return nil
}

// FindInstanceByName returns the instance with exactly the given name.
func (s *InMemory) FindInstanceByName(_ context.Context, name string) (*models.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if instance, ok := s.instances[name]; ok {
		copied := *instance
		return &copied, nil
	}
	return nil, fmt.Errorf("find instance %q: %w", name, sentinel.ErrNotFound)
}

// FindOverride returns the value of the first override row matching
// (instanceID, key). The key is matched literally, empty string included.
func (s *InMemory) FindOverride(_ context.Context, instanceID uuid.UUID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.overrides[instanceID] {
		if row.Key == key {
			return row.Value, nil
		}
	}
	return "", fmt.Errorf("find override %q: %w", key, sentinel.ErrNotFound)
}

// FindDefault returns the global default value for a key, matched literally.
func (s *InMemory) FindDefault(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.defaults[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("find default %q: %w", key, sentinel.ErrNotFound)
}
