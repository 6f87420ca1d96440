package store

import (
	"context"
	"sync"

	"github.com/LovationAdmin/expense-api/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps users in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) AppendExpense(_ context.Context, userID string, e models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &models.User{UserID: userID, Expenses: []models.Expense{}}
		s.users[userID] = u
	}
	u.Expenses = append(u.Expenses, copyExpense(e))
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryStore) EnsureUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &models.User{UserID: userID, Expenses: []models.Expense{}}
		s.users[userID] = u
	}
	return copyUser(u), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func copyUser(u *models.User) *models.User {
	out := &models.User{UserID: u.UserID, Expenses: make([]models.Expense, len(u.Expenses))}
	for i, e := range u.Expenses {
		out.Expenses[i] = copyExpense(e)
	}
	return out
}

func copyExpense(e models.Expense) models.Expense {
	e.Contacts = append([]string{}, e.Contacts...)
	return e
}
