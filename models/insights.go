package models

// NoneLabel names the sentinel top entry when nothing has been recorded.
const NoneLabel = "None"

type TopCategory struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type TopContact struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insights summarises a user's full expense history.
type Insights struct {
	TotalExpense   float64     `json:"totalExpense"`
	TotalMyExpense float64     `json:"totalMyExpense"`
	TopCategory    TopCategory `json:"topCategory"`
	TopContact     TopContact  `json:"topContact"`
	AverageExpense float64     `json:"averageExpense"`
	ExpensesCount  int         `json:"expensesCount"`
}
