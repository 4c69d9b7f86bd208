// Package store keeps the transactions the CLI has seen, in memory.
package store

import (
	"sort"
	"sync"

	"txmirror/internal/domain"
)

// Repository defines the interface for transaction storage.
type Repository interface {
	Save(tx *domain.Transaction) error
	Get(id string) (*domain.Transaction, error)
	List() ([]*domain.Transaction, error)
	Exists(id string) bool
}

// MemoryStore is an in-memory implementation of Repository.
type MemoryStore struct {
	transactions map[string]*domain.Transaction
	mu           sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*domain.Transaction),
	}
}

// Save stores a transaction, replacing any previous one with the same ID.
func (s *MemoryStore) Save(tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

// Get retrieves a transaction by ID.
func (s *MemoryStore) Get(id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, exists := s.transactions[id]
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// List returns all transactions sorted by ID.
func (s *MemoryStore) List() ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.transactions))
	for id := range s.transactions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*domain.Transaction, 0, len(s.transactions))
	for _, id := range ids {
		result = append(result, s.transactions[id])
	}
	return result, nil
}

// Exists checks if a transaction exists.
func (s *MemoryStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.transactions[id]
	return exists
}
