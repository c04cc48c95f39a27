package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"gorm.io/gorm"
)

// catalogRepository stores one kind of reference record. keyColumn holds the
// unique key and searchColumns are matched by List.
type catalogRepository[T any] struct {
	db            *gorm.DB
	keyColumn     string
	searchColumns []string
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) domainRepo.VendorRepository {
	return &catalogRepository[entity.Vendor]{db: db, keyColumn: "name", searchColumns: []string{"name", "contact"}}
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &catalogRepository[entity.Product]{db: db, keyColumn: "product_code", searchColumns: []string{"name", "product_code", "category"}}
}

// NewRawMaterialRepository creates a new raw material repository
func NewRawMaterialRepository(db *gorm.DB) domainRepo.RawMaterialRepository {
	return &catalogRepository[entity.RawMaterial]{db: db, keyColumn: "name", searchColumns: []string{"name", "category"}}
}

// NewPurchaseCategoryRepository creates a new purchase category repository
func NewPurchaseCategoryRepository(db *gorm.DB) domainRepo.PurchaseCategoryRepository {
	return &catalogRepository[entity.PurchaseCategory]{db: db, keyColumn: "name", searchColumns: []string{"name"}}
}

func (r *catalogRepository[T]) Create(ctx context.Context, record *T) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

func (r *catalogRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *catalogRepository[T]) GetByKey(ctx context.Context, key string) (*T, error) {
	return r.first(ctx, r.keyColumn+" = ?", key)
}

func (r *catalogRepository[T]) first(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *catalogRepository[T]) Update(ctx context.Context, record *T) error {
	return translateError(r.db.WithContext(ctx).Save(record).Error)
}

func (r *catalogRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error
}

func (r *catalogRepository[T]) List(ctx context.Context, params *domainRepo.ListParams) ([]T, int64, error) {
	var records []T
	var total int64

	if params == nil {
		params = &domainRepo.ListParams{}
	}

	query := r.db.WithContext(ctx).Model(new(T)).
		Scopes(Search(params.Search, r.searchColumns...))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params.Pagination))).
		Order("name ASC").
		Find(&records).Error

	return records, total, err
}
