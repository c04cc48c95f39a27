package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/response"
)

// ExpenseHandler handles expense-related HTTP requests. Every request only
// sees the caller's own expenses.
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func expenseInput(req *request.ExpenseRequest) *service.ExpenseInput {
	return &service.ExpenseInput{
		Date:        req.Date.Time,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Payment: entity.ExpensePayment{
			Cash:            orZero(req.Payment.Cash),
			DigitalTransfer: orZero(req.Payment.DigitalTransfer),
			Credit:          orZero(req.Payment.Credit),
		},
		BalanceDue: orZero(req.BalanceDue),
	}
}

// List handles listing the caller's expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), userID, &repository.ExpenseFilterParams{
		Pagination: pageParams(c),
		Category:   c.Query("category"),
		Dates:      dates,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Expenses retrieved successfully", result)
}

// Create handles recording an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, expenseInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense created successfully", expense)
}

// Get handles getting a single expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense retrieved successfully", expense)
}

// Replace handles a full update of an expense
func (h *ExpenseHandler) Replace(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}
	var req request.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.ReplaceExpense(c.Request.Context(), userID, id, expenseInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense updated successfully", expense)
}

// Patch handles a partial update of an expense
func (h *ExpenseHandler) Patch(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}
	var req request.PatchExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := &service.ExpensePatch{
		Date:        req.Date.TimePtr(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		BalanceDue:  req.BalanceDue,
	}
	if p := req.Payment; p != nil {
		patch.Payment = &service.ExpensePaymentPatch{
			Cash:            p.Cash,
			DigitalTransfer: p.DigitalTransfer,
			Credit:          p.Credit,
		}
	}

	expense, err := h.expenseService.PatchExpense(c.Request.Context(), userID, id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense updated successfully", expense)
}

// Delete handles deleting an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
