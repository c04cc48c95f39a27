package memrepo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
)

// UserStore is an in-memory UserRepository with a unique e-mail.
type UserStore struct {
	*table[entity.User]
}

func NewUserStore() *UserStore {
	return &UserStore{table: newTable[entity.User]()}
}

func (s *UserStore) save(u *entity.User) error {
	return s.put(u.ID, *u, func(other entity.User) bool {
		return strings.EqualFold(other.Email, u.Email)
	})
}

func (s *UserStore) Create(ctx context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	return s.save(u)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := s.get(id)
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	items, _ := s.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }, nil, nil)
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *UserStore) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	return s.save(u)
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(id)
}

func (s *UserStore) List(ctx context.Context, params *domainRepo.ListParams) ([]entity.User, int64, error) {
	if params == nil {
		params = &domainRepo.ListParams{}
	}
	match := func(u entity.User) bool {
		return params.Search == "" || containsFold(u.Name+" "+u.Email, params.Search)
	}
	items, total := s.find(match, func(a, b entity.User) bool { return a.CreatedAt.After(b.CreatedAt) }, params.Pagination)
	return items, total, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return int64(s.Len()), nil
}

// IdempotencyStore is an in-memory IdempotencyRepository.
type IdempotencyStore struct {
	*table[entity.IdempotencyKey]
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{table: newTable[entity.IdempotencyKey]()}
}

func (s *IdempotencyStore) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	items, _ := s.find(func(k entity.IdempotencyKey) bool { return k.Key == key && k.UserID == userID }, nil, nil)
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *IdempotencyStore) Create(ctx context.Context, k *entity.IdempotencyKey) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return s.put(k.ID, *k, func(other entity.IdempotencyKey) bool {
		return other.Key == k.Key && other.UserID == k.UserID
	})
}

func (s *IdempotencyStore) DeleteExpired(ctx context.Context, now time.Time) error {
	expired, _ := s.find(func(k entity.IdempotencyKey) bool { return k.IsExpired(now) }, nil, nil)
	for _, k := range expired {
		if err := s.delete(k.ID); err != nil {
			return err
		}
	}
	return nil
}

// Stores bundles one of every store, wired together.
type Stores struct {
	Users              *UserStore
	Vendors            *CatalogStore[entity.Vendor]
	Products           *CatalogStore[entity.Product]
	RawMaterials       *CatalogStore[entity.RawMaterial]
	PurchaseCategories *CatalogStore[entity.PurchaseCategory]
	Purchases          *PurchaseStore
	Expenses           *ExpenseStore
	DayCounters        *DayCounterStore
	Idempotency        *IdempotencyStore
}

func New() *Stores {
	materials := NewRawMaterialStore()
	return &Stores{
		Users:              NewUserStore(),
		Vendors:            NewVendorStore(),
		Products:           NewProductStore(),
		RawMaterials:       materials,
		PurchaseCategories: NewPurchaseCategoryStore(),
		Purchases:          NewPurchaseStore(materials),
		Expenses:           NewExpenseStore(),
		DayCounters:        NewDayCounterStore(),
		Idempotency:        NewIdempotencyStore(),
	}
}

var (
	_ domainRepo.UserRepository             = (*UserStore)(nil)
	_ domainRepo.VendorRepository           = (*CatalogStore[entity.Vendor])(nil)
	_ domainRepo.ProductRepository          = (*CatalogStore[entity.Product])(nil)
	_ domainRepo.RawMaterialRepository      = (*CatalogStore[entity.RawMaterial])(nil)
	_ domainRepo.PurchaseCategoryRepository = (*CatalogStore[entity.PurchaseCategory])(nil)
	_ domainRepo.PurchaseRepository         = (*PurchaseStore)(nil)
	_ domainRepo.ExpenseRepository          = (*ExpenseStore)(nil)
	_ domainRepo.DayCounterRepository       = (*DayCounterStore)(nil)
	_ domainRepo.IdempotencyRepository      = (*IdempotencyStore)(nil)
)
