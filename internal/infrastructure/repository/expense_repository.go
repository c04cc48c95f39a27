package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"gorm.io/gorm"
)

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return translateError(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.db.WithContext(ctx).
		First(&expense, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	return translateError(r.db.WithContext(ctx).Save(expense).Error)
}

func (r *expenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Expense{}, "id = ? AND owner_id = ?", id, ownerID).Error
}

func (r *expenseRepository) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Where("owner_id = ?", ownerID).
		Scopes(DateBetween("date", params.Dates))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params.Pagination))).
		Order("date DESC, created_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}
