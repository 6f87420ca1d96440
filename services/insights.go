package services

import (
	"github.com/shopspring/decimal"

	"github.com/LovationAdmin/expense-api/models"
)

// ComputeInsights aggregates expenses in one pass. Ties for top category and
// top contact go to the key seen first in insertion order. Callers must not
// pass an empty slice.
func ComputeInsights(expenses []models.Expense) models.Insights {
	var (
		total, totalMine float64
		categories       = newTally[float64]()
		contacts         = newTally[int]()
	)

	for _, e := range expenses {
		total += e.ExpenseAmount
		totalMine += e.MyExpense
		categories.add(string(e.Category), e.ExpenseAmount)
		for _, c := range e.Contacts {
			contacts.add(c, 1)
		}
	}

	topCategory, topAmount := categories.top()
	topContact, topCount := contacts.top()

	return models.Insights{
		TotalExpense:   total,
		TotalMyExpense: totalMine,
		TopCategory:    models.TopCategory{Name: topCategory, Amount: topAmount},
		TopContact:     models.TopContact{Name: topContact, Count: topCount},
		AverageExpense: averageOf(total, len(expenses)),
		ExpensesCount:  len(expenses),
	}
}

// averageOf rounds total/count half away from zero to 2 decimal places.
func averageOf(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromFloat(total).
		DivRound(decimal.NewFromInt(int64(count)), 2).
		InexactFloat64()
}

// tally sums values per key and remembers first-seen order.
type tally[V int | float64] struct {
	order  []string
	values map[string]V
}

func newTally[V int | float64]() *tally[V] {
	return &tally[V]{values: make(map[string]V)}
}

func (t *tally[V]) add(key string, v V) {
	if _, ok := t.values[key]; !ok {
		t.order = append(t.order, key)
	}
	t.values[key] += v
}

// top returns the largest entry; a later key must be strictly greater to win.
// With no entries it returns the ("None", 0) sentinel.
func (t *tally[V]) top() (string, V) {
	if len(t.order) == 0 {
		return models.NoneLabel, 0
	}
	best := t.order[0]
	for _, key := range t.order[1:] {
		if t.values[key] > t.values[best] {
			best = key
		}
	}
	return best, t.values[best]
}
