package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/application/pipeline"
	"github.com/sangkips/daybook-api/internal/domain/calc"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ExpenseService handles expenses. Every operation is scoped to the owner.
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	locker      lock.Locker
	logger      logrus.FieldLogger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository, locker lock.Locker, logger logrus.FieldLogger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		locker:      locker,
		logger:      logger,
	}
}

// ExpenseInput carries every caller-owned field of an expense
type ExpenseInput struct {
	Date        time.Time
	Name        string
	Description string
	Category    string
	Payment     entity.ExpensePayment
	BalanceDue  money.Money
}

// ExpensePaymentPatch changes individual payment channels
type ExpensePaymentPatch struct {
	Cash            *money.Money
	DigitalTransfer *money.Money
	Credit          *money.Money
}

// ExpensePatch holds the fields a partial update changes; nil means keep
type ExpensePatch struct {
	Date        *time.Time
	Name        *string
	Description *string
	Category    *string
	Payment     *ExpensePaymentPatch
	BalanceDue  *money.Money
}

func (in *ExpenseInput) apply(e *entity.Expense) {
	e.Date = utils.TruncateDate(in.Date)
	e.Name = strings.TrimSpace(in.Name)
	e.Description = strings.TrimSpace(in.Description)
	e.Category = strings.TrimSpace(in.Category)
	e.Payment = in.Payment
	e.BalanceDue = in.BalanceDue
}

func (in *ExpensePatch) apply(e *entity.Expense) {
	if in.Date != nil {
		e.Date = utils.TruncateDate(*in.Date)
	}
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		e.Category = strings.TrimSpace(*in.Category)
	}
	if p := in.Payment; p != nil {
		if p.Cash != nil {
			e.Payment.Cash = *p.Cash
		}
		if p.DigitalTransfer != nil {
			e.Payment.DigitalTransfer = *p.DigitalTransfer
		}
		if p.Credit != nil {
			e.Payment.Credit = *p.Credit
		}
	}
	if in.BalanceDue != nil {
		e.BalanceDue = *in.BalanceDue
	}
}

func validateExpense(ctx context.Context, e *entity.Expense) error {
	var errs apperror.FieldErrors
	if e.Date.IsZero() {
		errs.Add("date", "is required")
	}
	requireText(&errs, "name", e.Name)
	requireText(&errs, "description", e.Description)
	requireText(&errs, "category", e.Category)
	return errs.Err()
}

func (s *ExpenseService) steps(op string, persist func(ctx context.Context, e *entity.Expense) error) pipeline.Steps[entity.Expense] {
	return pipeline.Steps[entity.Expense]{
		Op:       op,
		Validate: validateExpense,
		Derive:   calc.ApplyExpense,
		Persist:  persist,
		Observe:  stateLogger(s.logger, op),
	}
}

func (s *ExpenseService) load(ctx context.Context, ownerID, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, apperror.NewStorageError("load expense", err)
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// CreateExpense records an expense for ownerID
func (s *ExpenseService) CreateExpense(ctx context.Context, ownerID uuid.UUID, input *ExpenseInput) (*entity.Expense, error) {
	expense := &entity.Expense{OwnerID: ownerID}
	input.apply(expense)

	if _, err := pipeline.Run(ctx, expense, s.steps("create expense", s.expenseRepo.Create)); err != nil {
		logStorageFailure(s.logger, "ExpenseService", "CreateExpense", ownerID, err)
		return nil, err
	}
	return expense, nil
}

// GetExpense retrieves one of the owner's expenses
func (s *ExpenseService) GetExpense(ctx context.Context, ownerID, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.load(ctx, ownerID, id)
	logStorageFailure(s.logger, "ExpenseService", "GetExpense", id, err)
	return expense, err
}

// ListExpenses lists the owner's expenses, newest first
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerID uuid.UUID, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	expenses, total, err := s.expenseRepo.List(ctx, ownerID, params)
	if err != nil {
		err = apperror.NewStorageError("list expenses", err)
		logStorageFailure(s.logger, "ExpenseService", "ListExpenses", ownerID, err)
		return nil, err
	}
	return paginate(expenses, total, params.Pagination), nil
}

// ReplaceExpense overwrites every caller-owned field and recomputes the total
func (s *ExpenseService) ReplaceExpense(ctx context.Context, ownerID, id uuid.UUID, input *ExpenseInput) (*entity.Expense, error) {
	return s.update(ctx, ownerID, id, "ReplaceExpense", "replace expense", func(e *entity.Expense) error {
		input.apply(e)
		return nil
	})
}

// PatchExpense merges the given fields and recomputes the total
func (s *ExpenseService) PatchExpense(ctx context.Context, ownerID, id uuid.UUID, patch *ExpensePatch) (*entity.Expense, error) {
	return s.update(ctx, ownerID, id, "PatchExpense", "update expense", func(e *entity.Expense) error {
		patch.apply(e)
		return nil
	})
}

func (s *ExpenseService) update(ctx context.Context, ownerID, id uuid.UUID, funcName, op string, overlay func(*entity.Expense) error) (*entity.Expense, error) {
	var updated *entity.Expense
	err := s.locker.WithLock(ctx, lock.Key("expense", id.String()), func(ctx context.Context) error {
		load := func(ctx context.Context) (*entity.Expense, error) { return s.load(ctx, ownerID, id) }
		var err error
		updated, _, err = pipeline.Patch(ctx, load, overlay, s.steps(op, s.expenseRepo.Update))
		return err
	})
	if err != nil {
		logStorageFailure(s.logger, "ExpenseService", funcName, id, err)
		return nil, err
	}
	return updated, nil
}

// DeleteExpense removes one of the owner's expenses
func (s *ExpenseService) DeleteExpense(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.load(ctx, ownerID, id); err != nil {
		logStorageFailure(s.logger, "ExpenseService", "DeleteExpense", id, err)
		return err
	}
	if err := s.expenseRepo.Delete(ctx, ownerID, id); err != nil {
		err = apperror.NewStorageError("delete expense", err)
		logStorageFailure(s.logger, "ExpenseService", "DeleteExpense", id, err)
		return err
	}
	return nil
}
