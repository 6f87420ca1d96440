// Package store persists users and their expense lists. Every backend appends
// expenses with a single atomic operation so concurrent submissions for the
// same user never overwrite each other.
package store

import (
	"context"
	"errors"

	"github.com/LovationAdmin/expense-api/models"
)

// ErrNotFound is returned when no user document exists for the requested id.
var ErrNotFound = errors.New("user not found")

// Store is implemented by the mongo, sql and memory backends.
type Store interface {
	// AppendExpense adds e to the end of the user's expense list, creating
	// the user first when it does not exist yet.
	AppendExpense(ctx context.Context, userID string, e models.Expense) error

	// GetUser returns the user with all expenses in insertion order, or
	// ErrNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// EnsureUser returns the user, creating an empty one when missing.
	EnsureUser(ctx context.Context, userID string) (*models.User, error)

	Ping(ctx context.Context) error
	Close() error
}
