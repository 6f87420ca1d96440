package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LovationAdmin/expense-api/models"
	"github.com/LovationAdmin/expense-api/services"
	"github.com/LovationAdmin/expense-api/store"
)

type ExpenseHandler struct {
	Ledger *services.LedgerService
}

func NewExpenseHandler(ledger *services.LedgerService) *ExpenseHandler {
	return &ExpenseHandler{Ledger: ledger}
}

// AddExpense handles POST /add-expense.
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req models.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	contacts, err := req.ContactList()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid contacts format. Contacts must be an array of strings."})
		return
	}

	expense, err := h.Ledger.AddExpense(c.Request.Context(), req.UserID, req.Brief, contacts)
	if errors.Is(err, services.ErrExtractionIncomplete) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to extract item name or category."})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save expense"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Expense added successfully",
		"expense": expense,
	})
}

// GetExpenses handles GET /expenses?userId=. Unknown users are created empty.
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	user, err := h.Ledger.ListExpenses(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   user.UserID,
		"expenses": user.Expenses,
	})
}

// GetInsights handles GET /user/:userId/insights.
func (h *ExpenseHandler) GetInsights(c *gin.Context) {
	insights, err := h.Ledger.Insights(c.Request.Context(), c.Param("userId"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	case errors.Is(err, services.ErrNoExpenses):
		c.JSON(http.StatusOK, gin.H{"message": "No expenses found"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, insights)
}
