// Package calc derives the computed money fields of purchases, expenses and
// day counters. Every function here is pure: the same inputs always produce
// the same outputs, and nothing is read from or written to storage.
package calc

import (
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
)

func requireNonNegative(errs *apperror.FieldErrors, field string, m money.Money) {
	if m.IsNegative() {
		errs.Add(field, "must not be negative")
	}
}

// tooLarge reports an amount whose result does not fit in money.Money.
func tooLarge(field string) error {
	return apperror.NewFieldError(field, "is too large")
}
