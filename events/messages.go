package events

import (
	"encoding/json"
	"time"

	"github.com/LovationAdmin/expense-api/models"
)

// TypeExpenseAdded tags ExpenseAddedMessage on every transport.
const TypeExpenseAdded = "expense_added"

// ExpenseAddedMessage is broadcast to websocket clients and published on
// AMQP after an expense is persisted.
type ExpenseAddedMessage struct {
	Type      string         `json:"type"`
	UserID    string         `json:"userId"`
	Expense   models.Expense `json:"expense"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewExpenseAddedMessage(userID string, expense models.Expense) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		Type:      TypeExpenseAdded,
		UserID:    userID,
		Expense:   expense,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
