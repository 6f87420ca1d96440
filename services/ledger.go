package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LovationAdmin/expense-api/metrics"
	"github.com/LovationAdmin/expense-api/models"
	"github.com/LovationAdmin/expense-api/store"
	"github.com/LovationAdmin/expense-api/utils"
)

var (
	// ErrExtractionIncomplete means the extractor returned an empty item name
	// or category.
	ErrExtractionIncomplete = errors.New("failed to extract item name or category")

	// ErrNoExpenses is returned by Insights for a user without expenses.
	ErrNoExpenses = errors.New("no expenses found")
)

// LedgerService appends expenses to a user's list and derives insights from it.
type LedgerService struct {
	store     store.Store
	extractor ExpenseExtractor
	notifiers []Notifier
	now       func() time.Time
	newID     func() string
}

func NewLedgerService(st store.Store, extractor ExpenseExtractor, notifiers ...Notifier) *LedgerService {
	return &LedgerService{
		store:     st,
		extractor: extractor,
		notifiers: notifiers,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// AddExpense extracts structured fields from brief, computes the caller's
// split share and appends the record. contacts must already be validated.
func (s *LedgerService) AddExpense(ctx context.Context, userID, brief string, contacts []string) (models.Expense, error) {
	extraction := s.extractor.Extract(ctx, brief)
	if strings.TrimSpace(extraction.ItemName) == "" || extraction.Category == "" {
		return models.Expense{}, ErrExtractionIncomplete
	}

	if contacts == nil {
		contacts = []string{}
	}

	expense := models.Expense{
		ID:            s.newID(),
		ItemName:      extraction.ItemName,
		ExpenseAmount: extraction.ExpenseAmount,
		MyExpense:     models.SplitShare(extraction.ExpenseAmount, len(contacts)),
		Category:      extraction.Category,
		Contacts:      contacts,
		// Stores keep millisecond precision; truncating here keeps the
		// returned record identical to what a later read gives back.
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.store.AppendExpense(ctx, userID, expense); err != nil {
		return models.Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	metrics.ExpensesAppended.Inc()

	utils.LogExpenseAction("Expense added", userID, expense.ID,
		"category", expense.Category,
		"contacts", utils.MaskContacts(expense.Contacts),
	)

	for _, n := range s.notifiers {
		if err := n.ExpenseAdded(ctx, userID, expense); err != nil {
			slog.Warn("[Ledger] notification failed", "expense_id", expense.ID, "error", err)
		}
	}

	return expense, nil
}

// ListExpenses returns the user's expenses, creating an empty user when the
// id is unknown.
func (s *LedgerService) ListExpenses(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.EnsureUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return user, nil
}

// Insights summarises the user's history. It returns store.ErrNotFound for
// unknown users and ErrNoExpenses when the list is empty.
func (s *LedgerService) Insights(ctx context.Context, userID string) (*models.Insights, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(user.Expenses) == 0 {
		return nil, ErrNoExpenses
	}
	insights := ComputeInsights(user.Expenses)
	return &insights, nil
}

// Ping checks the backing store.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
