package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/utils"
	"gorm.io/gorm"
)

type dayCounterRepository struct {
	db *gorm.DB
}

// NewDayCounterRepository creates a new day counter repository
func NewDayCounterRepository(db *gorm.DB) domainRepo.DayCounterRepository {
	return &dayCounterRepository{db: db}
}

func (r *dayCounterRepository) Create(ctx context.Context, counter *entity.DayCounter) error {
	return translateError(r.db.WithContext(ctx).Create(counter).Error)
}

func (r *dayCounterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DayCounter, error) {
	var counter entity.DayCounter
	err := r.db.WithContext(ctx).First(&counter, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *dayCounterRepository) GetByDate(ctx context.Context, date time.Time) (*entity.DayCounter, error) {
	var counter entity.DayCounter
	err := r.db.WithContext(ctx).First(&counter, "date = ?", utils.TruncateDate(date)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *dayCounterRepository) Update(ctx context.Context, counter *entity.DayCounter) error {
	return translateError(r.db.WithContext(ctx).Save(counter).Error)
}

func (r *dayCounterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DayCounter{}, "id = ?", id).Error
}

func (r *dayCounterRepository) List(ctx context.Context, params *domainRepo.DayCounterFilterParams) ([]entity.DayCounter, int64, error) {
	var counters []entity.DayCounter
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DayCounter{}).
		Scopes(DateBetween("date", params.Dates))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params.Pagination))).
		Order("date DESC").
		Find(&counters).Error

	return counters, total, err
}
