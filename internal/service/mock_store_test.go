package service

import (
	"txmirror/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of store.Repository for testing.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(tx *domain.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockRepository) Get(id string) (*domain.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockRepository) List() ([]*domain.Transaction, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockRepository) Exists(id string) bool {
	args := m.Called(id)
	return args.Bool(0)
}

// MockMetrics records metric calls.
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) TransitionRecorded(process, transition string) {
	m.Called(process, transition)
}

func (m *MockMetrics) UnknownTransition(process, transition string) {
	m.Called(process, transition)
}

func (m *MockMetrics) InvalidTransition(process, state, transition string) {
	m.Called(process, state, transition)
}
