package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/internal/testutil/memrepo"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayCounterInput() *DayCounterInput {
	d := date(2024, 3, 10)
	return &DayCounterInput{
		Date:           &d,
		OpeningBalance: mp("1000"),
		Payments: entity.PaymentBreakdown{
			Cash:            m("500"),
			DigitalTransfer: m("200"),
			Card:            m("100"),
		},
		Expenses:       m("100"),
		ClosingBalance: m("1350"),
		CashHandOver:   m("50"),
	}
}

func TestCreateDayCounterReconciles(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())

	d, err := svc.CreateDayCounter(context.Background(), dayCounterInput())
	require.NoError(t, err)
	assert.Equal(t, "800.00", d.TotalDayCounter.String())
	assert.Equal(t, "1400.00", d.ActualClosingCounter.String())
	assert.Equal(t, "0.00", d.Difference.String())
}

func TestCreateDayCounterRequiresDateAndOpeningBalance(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())

	in := dayCounterInput()
	in.Date = nil
	in.OpeningBalance = nil
	_, err := svc.CreateDayCounter(context.Background(), in)
	assert.Equal(t, []string{"date", "opening_balance"}, fieldsOf(t, err))
	assert.Zero(t, stores.DayCounters.Len())
}

func TestCreateDayCounterRejectsSecondForSameDate(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	_, err := svc.CreateDayCounter(ctx, dayCounterInput())
	require.NoError(t, err)
	_, err = svc.CreateDayCounter(ctx, dayCounterInput())
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 1, stores.DayCounters.Len())
}

func TestPatchDayCounterCashHandOver(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	d, err := svc.CreateDayCounter(ctx, dayCounterInput())
	require.NoError(t, err)

	updated, err := svc.PatchDayCounter(ctx, d.ID, &DayCounterPatch{CashHandOver: mp("80")})
	require.NoError(t, err)
	assert.Equal(t, "-30.00", updated.Difference.String())
	assert.Equal(t, "1400.00", updated.ActualClosingCounter.String())
	assert.Equal(t, "800.00", updated.TotalDayCounter.String())
	assert.Equal(t, "1000.00", updated.OpeningBalance.String())
}

func TestPatchDayCounterPaymentChannel(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	d, err := svc.CreateDayCounter(ctx, dayCounterInput())
	require.NoError(t, err)

	updated, err := svc.PatchDayCounter(ctx, d.ID, &DayCounterPatch{
		Payments: &PaymentBreakdownPatch{Cash: mp("550")},
	})
	require.NoError(t, err)
	assert.Equal(t, "200.00", updated.Payments.DigitalTransfer.String())
	assert.Equal(t, "850.00", updated.TotalDayCounter.String())
	assert.Equal(t, "1450.00", updated.ActualClosingCounter.String())
	assert.Equal(t, "50.00", updated.Difference.String())
}

func TestPatchDayCounterRejectsTakenDate(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	first, err := svc.CreateDayCounter(ctx, dayCounterInput())
	require.NoError(t, err)
	in := dayCounterInput()
	other := date(2024, 3, 11)
	in.Date = &other
	second, err := svc.CreateDayCounter(ctx, in)
	require.NoError(t, err)

	_, err = svc.PatchDayCounter(ctx, second.ID, &DayCounterPatch{Date: &first.Date})
	assert.True(t, apperror.IsConflict(err))

	// re-saving on its own date is fine
	_, err = svc.PatchDayCounter(ctx, first.ID, &DayCounterPatch{Date: &first.Date})
	assert.NoError(t, err)
}

func TestReplaceDayCounter(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	d, err := svc.CreateDayCounter(ctx, dayCounterInput())
	require.NoError(t, err)

	in := dayCounterInput()
	in.Payments = entity.PaymentBreakdown{Cash: m("300")}
	in.Expenses = m("0")
	in.CashHandOver = m("0")
	in.ClosingBalance = m("1300")
	replaced, err := svc.ReplaceDayCounter(ctx, d.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "300.00", replaced.TotalDayCounter.String())
	assert.Equal(t, "1300.00", replaced.ActualClosingCounter.String())
	assert.True(t, replaced.Difference.IsZero())

	in.OpeningBalance = nil
	_, err = svc.ReplaceDayCounter(ctx, d.ID, in)
	assert.Equal(t, []string{"opening_balance"}, fieldsOf(t, err))
}

func TestDayCounterLookups(t *testing.T) {
	stores := memrepo.New()
	svc := NewDayCounterService(stores.DayCounters, lock.NopLocker{}, quietLogger())
	ctx := context.Background()

	for _, day := range []int{3, 9, 5} {
		in := dayCounterInput()
		d := date(2024, 3, day)
		in.Date = &d
		_, err := svc.CreateDayCounter(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.ListDayCounters(ctx, &repository.DayCounterFilterParams{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.True(t, list.Items[0].Date.Equal(date(2024, 3, 9)))
	assert.True(t, list.Items[2].Date.Equal(date(2024, 3, 3)))

	found, err := svc.GetDayCounterByDate(ctx, date(2024, 3, 5))
	require.NoError(t, err)
	assert.True(t, found.Date.Equal(date(2024, 3, 5)))

	_, err = svc.GetDayCounterByDate(ctx, date(2024, 4, 1))
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.PatchDayCounter(ctx, uuid.New(), &DayCounterPatch{})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, svc.DeleteDayCounter(ctx, found.ID))
	assert.True(t, apperror.IsNotFound(svc.DeleteDayCounter(ctx, found.ID)))
}
