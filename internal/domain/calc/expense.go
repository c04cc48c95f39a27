package calc

import (
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
)

func checkExpensePayment(errs *apperror.FieldErrors, payment entity.ExpensePayment) {
	requireNonNegative(errs, "payment.cash", payment.Cash)
	requireNonNegative(errs, "payment.digital_transfer", payment.DigitalTransfer)
	requireNonNegative(errs, "payment.credit", payment.Credit)
}

// Expense sums the payment channels. Balance due on an expense is money still
// owed to the payee and is never derived from the total.
func Expense(payment entity.ExpensePayment) (money.Money, error) {
	var errs apperror.FieldErrors
	checkExpensePayment(&errs, payment)
	if err := errs.Err(); err != nil {
		return money.Zero, err
	}
	total, err := payment.Total()
	if err != nil {
		return money.Zero, tooLarge("payment")
	}
	return total, nil
}

// ApplyExpense validates e and sets its Total. BalanceDue is left as given.
func ApplyExpense(e *entity.Expense) error {
	var errs apperror.FieldErrors
	checkExpensePayment(&errs, e.Payment)
	requireNonNegative(&errs, "balance_due", e.BalanceDue)
	if err := errs.Err(); err != nil {
		return err
	}
	total, err := Expense(e.Payment)
	if err != nil {
		return err
	}
	e.Total = total
	return nil
}
