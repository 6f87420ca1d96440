package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LovationAdmin/expense-api/models"
)

// Dialect selects placeholder syntax for the SQL store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

var _ Store = (*SQLStore)(nil)

// SQLStore keeps users and expenses in two tables. Expense order is the
// autoincrement seq column.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// AppendExpense upserts the user row and inserts the expense in one transaction.
func (s *SQLStore) AppendExpense(ctx context.Context, userID string, e models.Expense) error {
	contacts, err := json.Marshal(nonNil(e.Contacts))
	if err != nil {
		return fmt.Errorf("failed to encode contacts: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertUser(ctx, tx, userID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO expenses (id, user_id, item_name, expense_amount, my_expense, category, contacts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), e.ID, userID, e.ItemName, e.ExpenseAmount, e.MyExpense, string(e.Category), string(contacts), e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM users WHERE user_id = ?`), userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return s.loadUser(ctx, userID)
}

func (s *SQLStore) EnsureUser(ctx context.Context, userID string) (*models.User, error) {
	if err := s.insertUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, userID)
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) insertUser(ctx context.Context, ex execer, userID string) error {
	_, err := ex.ExecContext(ctx, s.rebind(`
		INSERT INTO users (user_id, created_at) VALUES (?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`), userID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (s *SQLStore) loadUser(ctx context.Context, userID string) (*models.User, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, item_name, expense_amount, my_expense, category, contacts, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY seq ASC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	user := &models.User{UserID: userID, Expenses: []models.Expense{}}
	for rows.Next() {
		var (
			e         models.Expense
			category  string
			contacts  string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.ItemName, &e.ExpenseAmount, &e.MyExpense, &category, &contacts, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if err := json.Unmarshal([]byte(contacts), &e.Contacts); err != nil {
			return nil, fmt.Errorf("failed to decode contacts of expense %s: %w", e.ID, err)
		}
		e.Contacts = nonNil(e.Contacts)
		e.Category = models.Category(category)
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		user.Expenses = append(user.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	return user, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
