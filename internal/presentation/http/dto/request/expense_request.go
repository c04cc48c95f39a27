package request

import (
	"encoding/json"

	"github.com/sangkips/daybook-api/pkg/money"
)

// ExpensePaymentRequest is how an expense was paid. Missing channels are zero
// on create and unchanged on patch.
type ExpensePaymentRequest struct {
	Cash            *money.Money `json:"cash"`
	DigitalTransfer *money.Money `json:"digital_transfer"`
	Credit          *money.Money `json:"credit"`
}

// ExpenseRequest creates or fully replaces an expense. Total is computed
// by the server and ignored.
type ExpenseRequest struct {
	Date        *Date                 `json:"date" binding:"required"`
	Name        string                `json:"name" binding:"required,max=255"`
	Description string                `json:"description" binding:"required"`
	Category    string                `json:"category" binding:"required,max=255"`
	Payment     ExpensePaymentRequest `json:"payment"`
	BalanceDue  *money.Money          `json:"balance_due"`
	Total       json.RawMessage       `json:"total"`
}

// PatchExpenseRequest changes only the fields present in the body
type PatchExpenseRequest struct {
	Date        *Date                  `json:"date"`
	Name        *string                `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string                `json:"description" binding:"omitempty,min=1"`
	Category    *string                `json:"category" binding:"omitempty,min=1,max=255"`
	Payment     *ExpensePaymentRequest `json:"payment"`
	BalanceDue  *money.Money           `json:"balance_due"`
	Total       json.RawMessage        `json:"total"`
}
