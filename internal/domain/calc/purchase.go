package calc

import (
	"fmt"

	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/shopspring/decimal"
)

// QuantityPlaces is the number of decimal places the quantity column keeps.
// Anything finer would be rounded by the database and the stored total would
// no longer match a recomputation from the stored quantity.
const QuantityPlaces = 3

// maxQuantity is the first value with more integer digits than the column holds.
var maxQuantity = decimal.New(1, 15-QuantityPlaces)

type PurchaseInput struct {
	PricePerUnit money.Money
	Quantity     decimal.Decimal
	PaidAmount   money.Money
}

type PurchaseTotals struct {
	Total      money.Money
	BalanceDue money.Money
}

// Purchase computes total = price * quantity and balance_due = total - paid.
// A negative balance due means the vendor was overpaid and is not an error.
func Purchase(in PurchaseInput) (PurchaseTotals, error) {
	var errs apperror.FieldErrors
	requireNonNegative(&errs, "price_per_unit", in.PricePerUnit)
	switch {
	case !in.Quantity.IsPositive():
		errs.Add("quantity", "must be greater than zero")
	case !in.Quantity.Equal(in.Quantity.Truncate(QuantityPlaces)):
		errs.Add("quantity", fmt.Sprintf("must have at most %d decimal places", QuantityPlaces))
	case in.Quantity.GreaterThanOrEqual(maxQuantity):
		errs.Add("quantity", "is too large")
	}
	requireNonNegative(&errs, "paid_amount", in.PaidAmount)
	if err := errs.Err(); err != nil {
		return PurchaseTotals{}, err
	}

	total, err := in.PricePerUnit.MulQuantity(in.Quantity)
	if err != nil {
		return PurchaseTotals{}, tooLarge("quantity")
	}
	balance, err := total.Sub(in.PaidAmount)
	if err != nil {
		return PurchaseTotals{}, tooLarge("paid_amount")
	}
	return PurchaseTotals{Total: total, BalanceDue: balance}, nil
}

// ApplyPurchase recomputes the derived fields of p in place, overwriting
// whatever Total and BalanceDue it carried.
func ApplyPurchase(p *entity.Purchase) error {
	totals, err := Purchase(PurchaseInput{
		PricePerUnit: p.PricePerUnit,
		Quantity:     p.Quantity,
		PaidAmount:   p.PaidAmount,
	})
	if err != nil {
		return err
	}
	p.Total = totals.Total
	p.BalanceDue = totals.BalanceDue
	return nil
}
