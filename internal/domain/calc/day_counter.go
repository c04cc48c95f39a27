package calc

import (
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
)

type DayCounterInput struct {
	OpeningBalance money.Money
	Payments       entity.PaymentBreakdown
	Expenses       money.Money
	CashHandOver   money.Money
	ClosingBalance money.Money
}

type DayCounterTotals struct {
	TotalDayCounter      money.Money
	ActualClosingCounter money.Money
	// Difference is positive on a cash surplus and negative on a shortage.
	Difference money.Money
}

// DayCounter reconciles one day of takings.
//
//	total_day_counter      = cash + digital_transfer + card + credit
//	actual_closing_counter = opening_balance + cash - expenses
//	difference             = actual_closing_counter - (closing_balance + cash_hand_over)
func DayCounter(in DayCounterInput) (DayCounterTotals, error) {
	var errs apperror.FieldErrors
	requireNonNegative(&errs, "opening_balance", in.OpeningBalance)
	requireNonNegative(&errs, "payments.cash", in.Payments.Cash)
	requireNonNegative(&errs, "payments.digital_transfer", in.Payments.DigitalTransfer)
	requireNonNegative(&errs, "payments.card", in.Payments.Card)
	requireNonNegative(&errs, "payments.credit", in.Payments.Credit)
	requireNonNegative(&errs, "expenses", in.Expenses)
	requireNonNegative(&errs, "cash_hand_over", in.CashHandOver)
	requireNonNegative(&errs, "closing_balance", in.ClosingBalance)
	if err := errs.Err(); err != nil {
		return DayCounterTotals{}, err
	}

	total, err := in.Payments.Total()
	if err != nil {
		return DayCounterTotals{}, tooLarge("payments")
	}
	withCash, err := in.OpeningBalance.Add(in.Payments.Cash)
	if err != nil {
		return DayCounterTotals{}, tooLarge("payments.cash")
	}
	actual, err := withCash.Sub(in.Expenses)
	if err != nil {
		return DayCounterTotals{}, tooLarge("expenses")
	}
	counted, err := in.ClosingBalance.Add(in.CashHandOver)
	if err != nil {
		return DayCounterTotals{}, tooLarge("cash_hand_over")
	}
	difference, err := actual.Sub(counted)
	if err != nil {
		return DayCounterTotals{}, tooLarge("closing_balance")
	}
	return DayCounterTotals{
		TotalDayCounter:      total,
		ActualClosingCounter: actual,
		Difference:           difference,
	}, nil
}

// ApplyDayCounter recomputes the three derived fields of d in place.
func ApplyDayCounter(d *entity.DayCounter) error {
	totals, err := DayCounter(DayCounterInput{
		OpeningBalance: d.OpeningBalance,
		Payments:       d.Payments,
		Expenses:       d.Expenses,
		CashHandOver:   d.CashHandOver,
		ClosingBalance: d.ClosingBalance,
	})
	if err != nil {
		return err
	}
	d.TotalDayCounter = totals.TotalDayCounter
	d.ActualClosingCounter = totals.ActualClosingCounter
	d.Difference = totals.Difference
	return nil
}
