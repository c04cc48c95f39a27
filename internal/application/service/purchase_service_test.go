package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/enum"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/internal/testutil/memrepo"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseService(stores *memrepo.Stores, locker lock.Locker, logger logrus.FieldLogger) *PurchaseService {
	return NewPurchaseService(stores.Purchases, stores.RawMaterials, locker, logger)
}

func purchaseInput(materialID uuid.UUID) *PurchaseInput {
	return &PurchaseInput{
		Date:          date(2024, 3, 5),
		Category:      "Ingredients",
		RawMaterialID: materialID,
		PricePerUnit:  m("45.50"),
		Quantity:      decimal.NewFromInt(10),
		Vendor:        "Mill Co",
		PaymentMethod: enum.PaymentMethodCash,
		PaidAmount:    m("400"),
	}
}

func TestCreatePurchaseDerivesTotals(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")

	p, err := svc.CreatePurchase(context.Background(), purchaseInput(flour.ID))
	require.NoError(t, err)
	assert.Equal(t, "455.00", p.Total.String())
	assert.Equal(t, "55.00", p.BalanceDue.String())
	require.NotNil(t, p.RawMaterial)
	assert.Equal(t, "Flour", p.RawMaterial.Name)

	stored, err := svc.GetPurchase(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "455.00", stored.Total.String())
	assert.Equal(t, "Flour", stored.RawMaterial.Name)
}

func TestCreatePurchaseValidation(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")

	in := purchaseInput(flour.ID)
	in.Quantity = decimal.Zero
	_, err := svc.CreatePurchase(context.Background(), in)
	assert.Equal(t, []string{"quantity"}, fieldsOf(t, err))

	in = purchaseInput(flour.ID)
	in.PricePerUnit = m("-1")
	_, err = svc.CreatePurchase(context.Background(), in)
	assert.Equal(t, []string{"price_per_unit"}, fieldsOf(t, err))

	in = purchaseInput(uuid.New())
	in.Vendor = "  "
	in.PaymentMethod = enum.PaymentMethod(0)
	_, err = svc.CreatePurchase(context.Background(), in)
	assert.Equal(t, []string{"vendor", "payment_method", "raw_material_id"}, fieldsOf(t, err))

	assert.Zero(t, stores.Purchases.Len())
}

func TestCreatePurchaseAcceptsOverpayment(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")

	in := purchaseInput(flour.ID)
	in.PaidAmount = m("500")
	p, err := svc.CreatePurchase(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "-45.00", p.BalanceDue.String())
}

func TestPatchPurchaseRecomputesFromMergedState(t *testing.T) {
	stores := memrepo.New()
	locker := &countingLocker{}
	svc := newPurchaseService(stores, locker, quietLogger())
	flour := seedMaterial(t, stores, "Flour")
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, purchaseInput(flour.ID))
	require.NoError(t, err)

	updated, err := svc.PatchPurchase(ctx, p.ID, &PurchasePatch{PaidAmount: mp("455")})
	require.NoError(t, err)
	assert.Equal(t, "455.00", updated.Total.String())
	assert.Equal(t, "0.00", updated.BalanceDue.String())
	assert.Equal(t, []string{"purchase:" + p.ID.String()}, locker.keys)

	qty := decimal.NewFromInt(20)
	updated, err = svc.PatchPurchase(ctx, p.ID, &PurchasePatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, "910.00", updated.Total.String())
	assert.Equal(t, "455.00", updated.BalanceDue.String())

	stored, err := svc.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "910.00", stored.Total.String())
	assert.Equal(t, "Mill Co", stored.Vendor)
}

func TestPatchPurchaseRejectsZeroQuantity(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, purchaseInput(flour.ID))
	require.NoError(t, err)

	zero := decimal.Zero
	_, err = svc.PatchPurchase(ctx, p.ID, &PurchasePatch{Quantity: &zero})
	assert.True(t, apperror.IsValidation(err))

	stored, err := svc.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "455.00", stored.Total.String())
}

func TestReplacePurchase(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")
	sugar := seedMaterial(t, stores, "Sugar")
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, purchaseInput(flour.ID))
	require.NoError(t, err)

	in := purchaseInput(sugar.ID)
	in.PricePerUnit = m("12.34")
	in.Quantity = decimal.RequireFromString("2.5")
	in.PaidAmount = m("0")
	replaced, err := svc.ReplacePurchase(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, p.ID, replaced.ID)
	assert.Equal(t, "30.85", replaced.Total.String())
	assert.Equal(t, "30.85", replaced.BalanceDue.String())
	assert.Equal(t, "Sugar", replaced.RawMaterial.Name)
}

func TestPurchaseNotFound(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.GetPurchase(ctx, id)
	assert.True(t, apperror.IsNotFound(err))
	_, err = svc.PatchPurchase(ctx, id, &PurchasePatch{})
	assert.True(t, apperror.IsNotFound(err))
	_, err = svc.ReplacePurchase(ctx, id, purchaseInput(uuid.New()))
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(svc.DeletePurchase(ctx, id)))
}

func TestPurchaseStorageFailureKeepsPreviousVersion(t *testing.T) {
	stores := memrepo.New()
	logger, hook := newHookLogger()
	svc := newPurchaseService(stores, lock.NopLocker{}, logger)
	flour := seedMaterial(t, stores, "Flour")
	ctx := context.Background()

	p, err := svc.CreatePurchase(ctx, purchaseInput(flour.ID))
	require.NoError(t, err)

	stores.Purchases.FailWrites(true)
	_, err = svc.PatchPurchase(ctx, p.ID, &PurchasePatch{PaidAmount: mp("455")})
	assert.True(t, apperror.IsStorage(err))
	assert.ErrorIs(t, err, memrepo.ErrWriteFailed)
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "PatchPurchase", hook.LastEntry().Data["funcName"])

	stores.Purchases.FailWrites(false)
	stored, err := svc.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "55.00", stored.BalanceDue.String())
}

func TestListAndDeletePurchases(t *testing.T) {
	stores := memrepo.New()
	svc := newPurchaseService(stores, lock.NopLocker{}, quietLogger())
	flour := seedMaterial(t, stores, "Flour")
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		in := purchaseInput(flour.ID)
		in.Date = date(2024, 3, d)
		_, err := svc.CreatePurchase(ctx, in)
		require.NoError(t, err)
	}

	from := date(2024, 3, 2)
	result, err := svc.ListPurchases(ctx, &repository.PurchaseFilterParams{Dates: repository.DateRange{From: &from}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Pagination.Total)
	require.Len(t, result.Items, 2)
	assert.True(t, result.Items[0].Date.Equal(date(2024, 3, 3)))

	require.NoError(t, svc.DeletePurchase(ctx, result.Items[0].ID))
	assert.Equal(t, 2, stores.Purchases.Len())
}
