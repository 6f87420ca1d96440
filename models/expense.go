package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ============================================================================
// EXPENSE LEDGER
// ============================================================================

// User owns the ordered list of expenses submitted under one external user id.
// Field names on the bson side match the documents already in the users collection.
type User struct {
	UserID   string    `json:"userId" bson:"UserID"`
	Expenses []Expense `json:"expenses" bson:"expenses"`
}

// Expense is immutable once appended.
type Expense struct {
	ID            string    `json:"id" bson:"expenseId"`
	ItemName      string    `json:"itemName" bson:"itemName"`
	ExpenseAmount float64   `json:"expenseAmount" bson:"expenseAmount"`
	MyExpense     float64   `json:"myExpense" bson:"myexpense"`
	Category      Category  `json:"category" bson:"category"`
	Contacts      []string  `json:"contacts" bson:"contacts"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// SplitShare is the submitting user's equal share of amount when the bill is
// divided between them and every listed contact.
func SplitShare(amount float64, contactCount int) float64 {
	return amount / float64(contactCount+1)
}

// Extraction is the structured result derived from a free-text brief.
type Extraction struct {
	ItemName      string   `json:"itemName"`
	ExpenseAmount float64  `json:"expenseAmount"`
	Category      Category `json:"category"`
}

// ============================================================================
// REQUESTS
// ============================================================================

// ErrInvalidContacts is returned when contacts is not an array of strings.
var ErrInvalidContacts = errors.New("contacts must be an array of strings")

// AddExpenseRequest is the body of POST /add-expense. Contacts is kept raw so
// a missing list can be told apart from a malformed one.
type AddExpenseRequest struct {
	UserID   string          `json:"userId" binding:"required"`
	Brief    string          `json:"brief" binding:"required"`
	Contacts json.RawMessage `json:"contacts"`
}

// ContactList decodes Contacts. Anything other than a JSON array whose
// elements are all strings (including a missing field or null) is rejected.
func (r AddExpenseRequest) ContactList() ([]string, error) {
	raw := bytes.TrimSpace(r.Contacts)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidContacts
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrInvalidContacts
	}
	contacts := make([]string, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '"' {
			return nil, ErrInvalidContacts
		}
		var contact string
		if err := json.Unmarshal(item, &contact); err != nil {
			return nil, ErrInvalidContacts
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
