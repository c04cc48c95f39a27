package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
)

// CatalogRepository is the store for one kind of reference record.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetByKey looks a record up by its unique key (name or product code).
	GetByKey(ctx context.Context, key string) (*T, error)
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ListParams) ([]T, int64, error)
}

type (
	VendorRepository           = CatalogRepository[entity.Vendor]
	ProductRepository          = CatalogRepository[entity.Product]
	RawMaterialRepository      = CatalogRepository[entity.RawMaterial]
	PurchaseCategoryRepository = CatalogRepository[entity.PurchaseCategory]
)
