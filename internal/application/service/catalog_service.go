package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/application/pipeline"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// CatalogService is the CRUD flow shared by vendors, products, raw materials
// and purchase categories. *T must implement entity.CatalogRecord.
type CatalogService[T any] struct {
	repo     repository.CatalogRepository[T]
	kind     string
	keyField string
	validate func(*T) error
	logger   logrus.FieldLogger
}

// NewVendorService creates the vendor catalog service
func NewVendorService(repo repository.VendorRepository, logger logrus.FieldLogger) *CatalogService[entity.Vendor] {
	return &CatalogService[entity.Vendor]{repo: repo, kind: "Vendor", keyField: "name", validate: validateVendor, logger: logger}
}

// NewProductService creates the product catalog service
func NewProductService(repo repository.ProductRepository, logger logrus.FieldLogger) *CatalogService[entity.Product] {
	return &CatalogService[entity.Product]{repo: repo, kind: "Product", keyField: "product_code", validate: validateProduct, logger: logger}
}

// NewRawMaterialService creates the raw material catalog service
func NewRawMaterialService(repo repository.RawMaterialRepository, logger logrus.FieldLogger) *CatalogService[entity.RawMaterial] {
	return &CatalogService[entity.RawMaterial]{repo: repo, kind: "Raw material", keyField: "name", validate: validateRawMaterial, logger: logger}
}

// NewPurchaseCategoryService creates the purchase category catalog service
func NewPurchaseCategoryService(repo repository.PurchaseCategoryRepository, logger logrus.FieldLogger) *CatalogService[entity.PurchaseCategory] {
	return &CatalogService[entity.PurchaseCategory]{repo: repo, kind: "Purchase category", keyField: "name", validate: validatePurchaseCategory, logger: logger}
}

func validateVendor(v *entity.Vendor) error {
	v.Name = strings.TrimSpace(v.Name)
	var errs apperror.FieldErrors
	requireText(&errs, "name", v.Name)
	return errs.Err()
}

func validateProduct(p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.ProductCode = strings.TrimSpace(p.ProductCode)
	var errs apperror.FieldErrors
	requireText(&errs, "name", p.Name)
	requireText(&errs, "category", strings.TrimSpace(p.Category))
	requireText(&errs, "product_code", p.ProductCode)
	requireText(&errs, "hsn_code", strings.TrimSpace(p.HSNCode))
	if p.CostPrice.IsNegative() {
		errs.Add("cost_price", "must not be negative")
	}
	if p.SellingPrice.IsNegative() {
		errs.Add("selling_price", "must not be negative")
	}
	if p.Quantity < 0 {
		errs.Add("quantity", "must not be negative")
	}
	return errs.Err()
}

func validateRawMaterial(r *entity.RawMaterial) error {
	r.Name = strings.TrimSpace(r.Name)
	var errs apperror.FieldErrors
	requireText(&errs, "name", r.Name)
	return errs.Err()
}

func validatePurchaseCategory(c *entity.PurchaseCategory) error {
	c.Name = strings.TrimSpace(c.Name)
	var errs apperror.FieldErrors
	requireText(&errs, "name", c.Name)
	return errs.Err()
}

func catalogRecord[T any](v *T) entity.CatalogRecord {
	return any(v).(entity.CatalogRecord)
}

func (s *CatalogService[T]) conflictMessage() string {
	return s.kind + " with this " + strings.ReplaceAll(s.keyField, "_", " ") + " already exists"
}

func (s *CatalogService[T]) steps(op string, persist func(ctx context.Context, v *T) error) pipeline.Steps[T] {
	return pipeline.Steps[T]{
		Op:       op,
		Conflict: s.conflictMessage(),
		Validate: func(ctx context.Context, v *T) error {
			if s.validate != nil {
				if err := s.validate(v); err != nil {
					return err
				}
			}
			rec := catalogRecord(v)
			existing, err := s.repo.GetByKey(ctx, rec.UniqueKey())
			if err != nil {
				return apperror.NewStorageError("check "+strings.ToLower(s.kind), err)
			}
			if existing != nil && catalogRecord(existing).GetID() != rec.GetID() {
				return apperror.NewConflictError(s.conflictMessage())
			}
			return nil
		},
		Derive:  pipeline.NoDerive[T],
		Persist: persist,
		Observe: stateLogger(s.logger, op),
	}
}

func (s *CatalogService[T]) load(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load "+strings.ToLower(s.kind), err)
	}
	if record == nil {
		return nil, apperror.NewNotFoundError(s.kind)
	}
	return record, nil
}

// Create stores a new record
func (s *CatalogService[T]) Create(ctx context.Context, record *T) (*T, error) {
	if _, err := pipeline.Run(ctx, record, s.steps("create "+strings.ToLower(s.kind), s.repo.Create)); err != nil {
		logStorageFailure(s.logger, s.module(), "Create", nil, err)
		return nil, err
	}
	return record, nil
}

// Get retrieves a record by ID
func (s *CatalogService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.load(ctx, id)
	logStorageFailure(s.logger, s.module(), "Get", id, err)
	return record, err
}

// List returns a page of records ordered by name
func (s *CatalogService[T]) List(ctx context.Context, params *repository.ListParams) (*pagination.PaginatedResult[T], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	records, total, err := s.repo.List(ctx, params)
	if err != nil {
		err = apperror.NewStorageError("list "+strings.ToLower(s.kind), err)
		logStorageFailure(s.logger, s.module(), "List", nil, err)
		return nil, err
	}
	return paginate(records, total, params.Pagination), nil
}

// Update loads the record, lets apply overwrite its fields and stores it
func (s *CatalogService[T]) Update(ctx context.Context, id uuid.UUID, apply func(*T)) (*T, error) {
	load := func(ctx context.Context) (*T, error) { return s.load(ctx, id) }
	overlay := func(v *T) error {
		apply(v)
		return nil
	}
	updated, _, err := pipeline.Patch(ctx, load, overlay, s.steps("update "+strings.ToLower(s.kind), s.repo.Update))
	if err != nil {
		logStorageFailure(s.logger, s.module(), "Update", id, err)
		return nil, err
	}
	return updated, nil
}

// Delete removes a record
func (s *CatalogService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		logStorageFailure(s.logger, s.module(), "Delete", id, err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		err = apperror.NewStorageError("delete "+strings.ToLower(s.kind), err)
		logStorageFailure(s.logger, s.module(), "Delete", id, err)
		return err
	}
	return nil
}

func (s *CatalogService[T]) module() string {
	return strings.ReplaceAll(s.kind, " ", "") + "Service"
}
