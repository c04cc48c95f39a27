package memrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/utils"
)

// PurchaseStore is an in-memory PurchaseRepository. Reads fill in the raw
// material from Materials when it is set.
type PurchaseStore struct {
	*table[entity.Purchase]
	Materials *CatalogStore[entity.RawMaterial]
}

func NewPurchaseStore(materials *CatalogStore[entity.RawMaterial]) *PurchaseStore {
	return &PurchaseStore{table: newTable[entity.Purchase](), Materials: materials}
}

func (s *PurchaseStore) save(p *entity.Purchase) error {
	row := *p
	row.RawMaterial = nil
	return s.put(row.ID, row, nil)
}

func (s *PurchaseStore) Create(ctx context.Context, p *entity.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	return s.save(p)
}

func (s *PurchaseStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	p, ok := s.get(id)
	if !ok {
		return nil, nil
	}
	s.attach(p)
	return p, nil
}

func (s *PurchaseStore) attach(p *entity.Purchase) {
	if s.Materials == nil {
		return
	}
	if m, ok := s.Materials.get(p.RawMaterialID); ok {
		p.RawMaterial = m
	}
}

func (s *PurchaseStore) Update(ctx context.Context, p *entity.Purchase) error {
	p.UpdatedAt = time.Now()
	return s.save(p)
}

func (s *PurchaseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(id)
}

func (s *PurchaseStore) List(ctx context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	match := func(p entity.Purchase) bool {
		if params.Vendor != "" && p.Vendor != params.Vendor {
			return false
		}
		if params.Category != "" && p.Category != params.Category {
			return false
		}
		if params.RawMaterialID != nil && p.RawMaterialID != *params.RawMaterialID {
			return false
		}
		return params.Dates.Contains(p.Date)
	}
	items, total := s.find(match, func(a, b entity.Purchase) bool { return a.Date.After(b.Date) }, params.Pagination)
	for i := range items {
		s.attach(&items[i])
	}
	return items, total, nil
}

// ExpenseStore is an in-memory ExpenseRepository.
type ExpenseStore struct {
	*table[entity.Expense]
}

func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{table: newTable[entity.Expense]()}
}

func (s *ExpenseStore) Create(ctx context.Context, e *entity.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	return s.put(e.ID, *e, nil)
}

func (s *ExpenseStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Expense, error) {
	e, ok := s.get(id)
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	return e, nil
}

func (s *ExpenseStore) Update(ctx context.Context, e *entity.Expense) error {
	e.UpdatedAt = time.Now()
	return s.put(e.ID, *e, nil)
}

func (s *ExpenseStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if e, ok := s.get(id); !ok || e.OwnerID != ownerID {
		return nil
	}
	return s.delete(id)
}

func (s *ExpenseStore) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	match := func(e entity.Expense) bool {
		if e.OwnerID != ownerID {
			return false
		}
		if params.Category != "" && e.Category != params.Category {
			return false
		}
		return params.Dates.Contains(e.Date)
	}
	items, total := s.find(match, func(a, b entity.Expense) bool { return a.Date.After(b.Date) }, params.Pagination)
	return items, total, nil
}

// DayCounterStore is an in-memory DayCounterRepository with a unique date.
type DayCounterStore struct {
	*table[entity.DayCounter]
}

func NewDayCounterStore() *DayCounterStore {
	return &DayCounterStore{table: newTable[entity.DayCounter]()}
}

func (s *DayCounterStore) save(d *entity.DayCounter) error {
	return s.put(d.ID, *d, func(other entity.DayCounter) bool {
		return other.Date.Equal(d.Date)
	})
}

func (s *DayCounterStore) Create(ctx context.Context, d *entity.DayCounter) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now
	return s.save(d)
}

func (s *DayCounterStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.DayCounter, error) {
	d, ok := s.get(id)
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (s *DayCounterStore) GetByDate(ctx context.Context, date time.Time) (*entity.DayCounter, error) {
	date = utils.TruncateDate(date)
	items, _ := s.find(func(d entity.DayCounter) bool { return d.Date.Equal(date) }, nil, nil)
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *DayCounterStore) Update(ctx context.Context, d *entity.DayCounter) error {
	d.UpdatedAt = time.Now()
	return s.save(d)
}

func (s *DayCounterStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(id)
}

func (s *DayCounterStore) List(ctx context.Context, params *domainRepo.DayCounterFilterParams) ([]entity.DayCounter, int64, error) {
	items, total := s.find(
		func(d entity.DayCounter) bool { return params.Dates.Contains(d.Date) },
		func(a, b entity.DayCounter) bool { return a.Date.After(b.Date) },
		params.Pagination,
	)
	return items, total, nil
}
