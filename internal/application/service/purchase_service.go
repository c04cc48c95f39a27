package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/application/pipeline"
	"github.com/sangkips/daybook-api/internal/domain/calc"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/enum"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PurchaseService handles purchase-related operations
type PurchaseService struct {
	purchaseRepo    repository.PurchaseRepository
	rawMaterialRepo repository.RawMaterialRepository
	locker          lock.Locker
	logger          logrus.FieldLogger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	rawMaterialRepo repository.RawMaterialRepository,
	locker lock.Locker,
	logger logrus.FieldLogger,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:    purchaseRepo,
		rawMaterialRepo: rawMaterialRepo,
		locker:          locker,
		logger:          logger,
	}
}

// PurchaseInput carries every caller-owned field of a purchase
type PurchaseInput struct {
	Date          time.Time
	Category      string
	RawMaterialID uuid.UUID
	PricePerUnit  money.Money
	Quantity      decimal.Decimal
	Vendor        string
	PaymentMethod enum.PaymentMethod
	PaidAmount    money.Money
}

// PurchasePatch holds the fields a partial update changes; nil means keep
type PurchasePatch struct {
	Date          *time.Time
	Category      *string
	RawMaterialID *uuid.UUID
	PricePerUnit  *money.Money
	Quantity      *decimal.Decimal
	Vendor        *string
	PaymentMethod *enum.PaymentMethod
	PaidAmount    *money.Money
}

func (in *PurchaseInput) apply(p *entity.Purchase) {
	p.Date = utils.TruncateDate(in.Date)
	p.Category = strings.TrimSpace(in.Category)
	p.RawMaterialID = in.RawMaterialID
	p.PricePerUnit = in.PricePerUnit
	p.Quantity = in.Quantity
	p.Vendor = strings.TrimSpace(in.Vendor)
	p.PaymentMethod = in.PaymentMethod
	p.PaidAmount = in.PaidAmount
}

func (in *PurchasePatch) apply(p *entity.Purchase) {
	if in.Date != nil {
		p.Date = utils.TruncateDate(*in.Date)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.RawMaterialID != nil {
		p.RawMaterialID = *in.RawMaterialID
	}
	if in.PricePerUnit != nil {
		p.PricePerUnit = *in.PricePerUnit
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Vendor != nil {
		p.Vendor = strings.TrimSpace(*in.Vendor)
	}
	if in.PaymentMethod != nil {
		p.PaymentMethod = *in.PaymentMethod
	}
	if in.PaidAmount != nil {
		p.PaidAmount = *in.PaidAmount
	}
}

func (s *PurchaseService) steps(op string, persist func(ctx context.Context, p *entity.Purchase) error) pipeline.Steps[entity.Purchase] {
	return pipeline.Steps[entity.Purchase]{
		Op:       op,
		Validate: s.validate,
		Derive:   calc.ApplyPurchase,
		Persist:  persist,
		Observe:  stateLogger(s.logger, op),
	}
}

// validate checks the caller-owned fields and resolves the raw material.
func (s *PurchaseService) validate(ctx context.Context, p *entity.Purchase) error {
	var errs apperror.FieldErrors
	if p.Date.IsZero() {
		errs.Add("date", "is required")
	}
	requireText(&errs, "category", p.Category)
	requireText(&errs, "vendor", p.Vendor)
	if !p.PaymentMethod.IsValid() {
		errs.Add("payment_method", "must be one of Cash, DigitalTransfer, Card, Credit")
	}

	if p.RawMaterialID == uuid.Nil {
		errs.Add("raw_material_id", "is required")
	} else if p.RawMaterial == nil || p.RawMaterial.ID != p.RawMaterialID {
		material, err := s.rawMaterialRepo.GetByID(ctx, p.RawMaterialID)
		if err != nil {
			return apperror.NewStorageError("load raw material", err)
		}
		if material == nil {
			errs.Add("raw_material_id", "raw material does not exist")
		}
		p.RawMaterial = material
	}
	return errs.Err()
}

func (s *PurchaseService) load(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load purchase", err)
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// CreatePurchase validates the input, derives total and balance due and stores
// the purchase
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *PurchaseInput) (*entity.Purchase, error) {
	purchase := &entity.Purchase{}
	input.apply(purchase)

	_, err := pipeline.Run(ctx, purchase, s.steps("create purchase", s.purchaseRepo.Create))
	if err != nil {
		logStorageFailure(s.logger, "PurchaseService", "CreatePurchase", nil, err)
		return nil, err
	}
	return purchase, nil
}

// GetPurchase retrieves a purchase by ID with its raw material
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.load(ctx, id)
	logStorageFailure(s.logger, "PurchaseService", "GetPurchase", id, err)
	return purchase, err
}

// ListPurchases lists purchases with filtering, newest first
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		err = apperror.NewStorageError("list purchases", err)
		logStorageFailure(s.logger, "PurchaseService", "ListPurchases", nil, err)
		return nil, err
	}
	return paginate(purchases, total, params.Pagination), nil
}

// ReplacePurchase overwrites every caller-owned field and re-derives the totals
func (s *PurchaseService) ReplacePurchase(ctx context.Context, id uuid.UUID, input *PurchaseInput) (*entity.Purchase, error) {
	return s.update(ctx, id, "ReplacePurchase", "replace purchase", func(p *entity.Purchase) error {
		input.apply(p)
		return nil
	})
}

// PatchPurchase merges the given fields onto the stored purchase and
// re-derives the totals from the merged values
func (s *PurchaseService) PatchPurchase(ctx context.Context, id uuid.UUID, patch *PurchasePatch) (*entity.Purchase, error) {
	return s.update(ctx, id, "PatchPurchase", "update purchase", func(p *entity.Purchase) error {
		patch.apply(p)
		return nil
	})
}

func (s *PurchaseService) update(ctx context.Context, id uuid.UUID, funcName, op string, overlay func(*entity.Purchase) error) (*entity.Purchase, error) {
	var updated *entity.Purchase
	err := s.locker.WithLock(ctx, lock.Key("purchase", id.String()), func(ctx context.Context) error {
		load := func(ctx context.Context) (*entity.Purchase, error) { return s.load(ctx, id) }
		var err error
		updated, _, err = pipeline.Patch(ctx, load, overlay, s.steps(op, s.purchaseRepo.Update))
		return err
	})
	if err != nil {
		logStorageFailure(s.logger, "PurchaseService", funcName, id, err)
		return nil, err
	}
	return updated, nil
}

// DeletePurchase removes a purchase
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		logStorageFailure(s.logger, "PurchaseService", "DeletePurchase", id, err)
		return err
	}
	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		err = apperror.NewStorageError("delete purchase", err)
		logStorageFailure(s.logger, "PurchaseService", "DeletePurchase", id, err)
		return err
	}
	return nil
}
