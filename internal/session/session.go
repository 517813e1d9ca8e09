// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package session issues the stable, anonymous identifier a kiosk attaches to
// every reaction it submits.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/moodmirror/internal/validation"
)

// StorageKey is the key the identifier is persisted under.
const StorageKey = "moodmirror_session_id"

// MaxIDLength bounds identifiers in UTF-16 code units, matching the
// ingestion gateway.
const MaxIDLength = 200

// Storage is the client-persistent key-value capability the manager needs.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Manager returns the same identifier for the lifetime of its storage.
type Manager struct {
	storage Storage
	newID   func() string
	mu      sync.Mutex
}

// NewManager creates a Manager over storage.
func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage, newID: uuid.NewString}
}

// GetOrCreate returns the stored identifier, generating and storing a new
// random one when none exists or the stored value is unusable.
func (m *Manager) GetOrCreate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok, err := m.storage.Get(ctx, StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session id: %w", err)
	}
	if ok && validID(id) {
		return id, nil
	}

	id = m.newID()
	if err := m.storage.Set(ctx, StorageKey, id); err != nil {
		return "", fmt.Errorf("failed to store session id: %w", err)
	}
	return id, nil
}

func validID(id string) bool {
	n := validation.UTF16Len(id)
	return n >= 1 && n <= MaxIDLength
}

// MemoryStorage is an in-process Storage for tests and ephemeral kiosks.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements Storage.
func (s *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Storage.
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
