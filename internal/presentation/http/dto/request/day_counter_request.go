package request

import (
	"encoding/json"

	"github.com/sangkips/daybook-api/pkg/money"
)

// PaymentBreakdownRequest holds the day's takings per channel
type PaymentBreakdownRequest struct {
	Cash            *money.Money `json:"cash"`
	DigitalTransfer *money.Money `json:"digital_transfer"`
	Card            *money.Money `json:"card"`
	Credit          *money.Money `json:"credit"`
}

type dayCounterDerived struct {
	TotalDayCounter      json.RawMessage `json:"total_day_counter"`
	ActualClosingCounter json.RawMessage `json:"actual_closing_counter"`
	Difference           json.RawMessage `json:"difference"`
}

// DayCounterRequest creates or fully replaces a day counter. The derived
// totals are recomputed and any sent values are ignored.
type DayCounterRequest struct {
	Date           *Date                   `json:"date"`
	OpeningBalance *money.Money            `json:"opening_balance"`
	Payments       PaymentBreakdownRequest `json:"payments"`
	Expenses       *money.Money            `json:"expenses"`
	CashHandOver   *money.Money            `json:"cash_hand_over"`
	ClosingBalance *money.Money            `json:"closing_balance"`
	Remarks        string                  `json:"remarks" binding:"max=2000"`
	dayCounterDerived
}

// PatchDayCounterRequest changes only the fields present in the body
type PatchDayCounterRequest struct {
	Date           *Date                    `json:"date"`
	OpeningBalance *money.Money             `json:"opening_balance"`
	Payments       *PaymentBreakdownRequest `json:"payments"`
	Expenses       *money.Money             `json:"expenses"`
	CashHandOver   *money.Money             `json:"cash_hand_over"`
	ClosingBalance *money.Money             `json:"closing_balance"`
	Remarks        *string                  `json:"remarks" binding:"omitempty,max=2000"`
	dayCounterDerived
}
