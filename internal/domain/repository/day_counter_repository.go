package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/pagination"
)

// DayCounterRepository defines the interface for day counter data operations.
// There is at most one day counter per calendar date.
type DayCounterRepository interface {
	Create(ctx context.Context, counter *entity.DayCounter) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DayCounter, error)
	GetByDate(ctx context.Context, date time.Time) (*entity.DayCounter, error)
	Update(ctx context.Context, counter *entity.DayCounter) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns day counters newest first.
	List(ctx context.Context, params *DayCounterFilterParams) ([]entity.DayCounter, int64, error)
}

// DayCounterFilterParams contains filtering parameters for day counter queries
type DayCounterFilterParams struct {
	Pagination *pagination.PaginationParams
	Dates      DateRange
}
