package services

import (
	"context"

	"github.com/LovationAdmin/expense-api/models"
)

// Notifier is told about every persisted expense. Failures are logged by the
// ledger and never fail the submission.
type Notifier interface {
	ExpenseAdded(ctx context.Context, userID string, expense models.Expense) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, userID string, expense models.Expense) error

func (f NotifierFunc) ExpenseAdded(ctx context.Context, userID string, expense models.Expense) error {
	return f(ctx, userID, expense)
}
