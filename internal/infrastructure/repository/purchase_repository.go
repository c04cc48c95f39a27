package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(purchase).Error)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("RawMaterial").
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(purchase).Error)
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Purchase{}, "id = ?", id).Error
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	var purchases []entity.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Scopes(DateBetween("date", params.Dates))

	if params.Vendor != "" {
		query = query.Where("vendor = ?", params.Vendor)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.RawMaterialID != nil {
		query = query.Where("raw_material_id = ?", *params.RawMaterialID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params.Pagination))).
		Preload("RawMaterial").
		Order("date DESC, created_at DESC").
		Find(&purchases).Error

	return purchases, total, err
}
