package memrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
)

// CatalogStore is an in-memory CatalogRepository. T must be one of the
// catalog entities so that *T is an entity.CatalogRecord.
type CatalogStore[T any] struct {
	*table[T]
	setID     func(*T, uuid.UUID)
	searchKey func(T) string
}

func newCatalog[T any](setID func(*T, uuid.UUID), searchKey func(T) string) *CatalogStore[T] {
	return &CatalogStore[T]{table: newTable[T](), setID: setID, searchKey: searchKey}
}

func NewVendorStore() *CatalogStore[entity.Vendor] {
	return newCatalog(
		func(v *entity.Vendor, id uuid.UUID) { v.ID = id; v.CreatedAt = time.Now() },
		func(v entity.Vendor) string { return v.Name + " " + v.Contact },
	)
}

func NewProductStore() *CatalogStore[entity.Product] {
	return newCatalog(
		func(p *entity.Product, id uuid.UUID) { p.ID = id; p.CreatedAt = time.Now() },
		func(p entity.Product) string { return p.Name + " " + p.ProductCode + " " + p.Category },
	)
}

func NewRawMaterialStore() *CatalogStore[entity.RawMaterial] {
	return newCatalog(
		func(r *entity.RawMaterial, id uuid.UUID) { r.ID = id; r.CreatedAt = time.Now() },
		func(r entity.RawMaterial) string { return r.Name + " " + r.Category },
	)
}

func NewPurchaseCategoryStore() *CatalogStore[entity.PurchaseCategory] {
	return newCatalog(
		func(c *entity.PurchaseCategory, id uuid.UUID) { c.ID = id; c.CreatedAt = time.Now() },
		func(c entity.PurchaseCategory) string { return c.Name },
	)
}

func record[T any](v *T) entity.CatalogRecord {
	return any(v).(entity.CatalogRecord)
}

func (s *CatalogStore[T]) save(v *T) error {
	r := record(v)
	key := r.UniqueKey()
	return s.put(r.GetID(), *v, func(other T) bool {
		return record(&other).UniqueKey() == key
	})
}

func (s *CatalogStore[T]) Create(ctx context.Context, v *T) error {
	if record(v).GetID() == uuid.Nil {
		s.setID(v, uuid.New())
	}
	return s.save(v)
}

func (s *CatalogStore[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	v, ok := s.get(id)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (s *CatalogStore[T]) GetByKey(ctx context.Context, key string) (*T, error) {
	items, _ := s.find(func(v T) bool { return record(&v).UniqueKey() == key }, nil, nil)
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *CatalogStore[T]) Update(ctx context.Context, v *T) error {
	return s.save(v)
}

func (s *CatalogStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(id)
}

func (s *CatalogStore[T]) List(ctx context.Context, params *domainRepo.ListParams) ([]T, int64, error) {
	if params == nil {
		params = &domainRepo.ListParams{}
	}
	match := func(v T) bool {
		return params.Search == "" || containsFold(s.searchKey(v), params.Search)
	}
	less := func(a, b T) bool { return s.searchKey(a) < s.searchKey(b) }
	items, total := s.find(match, less, params.Pagination)
	return items, total, nil
}
