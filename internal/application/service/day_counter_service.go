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

const dayCounterConflict = "A day counter already exists for this date"

// DayCounterService keeps one reconciliation snapshot per calendar date.
// The snapshot is never compared against the purchase or expense ledgers.
type DayCounterService struct {
	counterRepo repository.DayCounterRepository
	locker      lock.Locker
	logger      logrus.FieldLogger
}

// NewDayCounterService creates a new day counter service
func NewDayCounterService(counterRepo repository.DayCounterRepository, locker lock.Locker, logger logrus.FieldLogger) *DayCounterService {
	return &DayCounterService{
		counterRepo: counterRepo,
		locker:      locker,
		logger:      logger,
	}
}

// DayCounterInput carries every caller-owned field of a day counter.
// Date and OpeningBalance are required; the rest default to zero.
type DayCounterInput struct {
	Date           *time.Time
	OpeningBalance *money.Money
	Payments       entity.PaymentBreakdown
	Expenses       money.Money
	CashHandOver   money.Money
	ClosingBalance money.Money
	Remarks        string
}

// PaymentBreakdownPatch changes individual payment channels
type PaymentBreakdownPatch struct {
	Cash            *money.Money
	DigitalTransfer *money.Money
	Card            *money.Money
	Credit          *money.Money
}

// DayCounterPatch holds the fields a partial update changes; nil means keep
type DayCounterPatch struct {
	Date           *time.Time
	OpeningBalance *money.Money
	Payments       *PaymentBreakdownPatch
	Expenses       *money.Money
	CashHandOver   *money.Money
	ClosingBalance *money.Money
	Remarks        *string
}

func (in *DayCounterInput) check() error {
	var errs apperror.FieldErrors
	if in.Date == nil || in.Date.IsZero() {
		errs.Add("date", "is required")
	}
	if in.OpeningBalance == nil {
		errs.Add("opening_balance", "is required")
	}
	return errs.Err()
}

func (in *DayCounterInput) apply(d *entity.DayCounter) {
	d.Date = utils.TruncateDate(*in.Date)
	d.OpeningBalance = *in.OpeningBalance
	d.Payments = in.Payments
	d.Expenses = in.Expenses
	d.CashHandOver = in.CashHandOver
	d.ClosingBalance = in.ClosingBalance
	d.Remarks = strings.TrimSpace(in.Remarks)
}

func (in *DayCounterPatch) apply(d *entity.DayCounter) {
	if in.Date != nil {
		d.Date = utils.TruncateDate(*in.Date)
	}
	if in.OpeningBalance != nil {
		d.OpeningBalance = *in.OpeningBalance
	}
	if p := in.Payments; p != nil {
		if p.Cash != nil {
			d.Payments.Cash = *p.Cash
		}
		if p.DigitalTransfer != nil {
			d.Payments.DigitalTransfer = *p.DigitalTransfer
		}
		if p.Card != nil {
			d.Payments.Card = *p.Card
		}
		if p.Credit != nil {
			d.Payments.Credit = *p.Credit
		}
	}
	if in.Expenses != nil {
		d.Expenses = *in.Expenses
	}
	if in.CashHandOver != nil {
		d.CashHandOver = *in.CashHandOver
	}
	if in.ClosingBalance != nil {
		d.ClosingBalance = *in.ClosingBalance
	}
	if in.Remarks != nil {
		d.Remarks = strings.TrimSpace(*in.Remarks)
	}
}

// validate rejects a second day counter for the same date.
func (s *DayCounterService) validate(ctx context.Context, d *entity.DayCounter) error {
	if d.Date.IsZero() {
		return apperror.NewFieldError("date", "is required")
	}
	existing, err := s.counterRepo.GetByDate(ctx, d.Date)
	if err != nil {
		return apperror.NewStorageError("check day counter date", err)
	}
	if existing != nil && existing.ID != d.ID {
		return apperror.NewConflictError(dayCounterConflict)
	}
	return nil
}

func (s *DayCounterService) steps(op string, persist func(ctx context.Context, d *entity.DayCounter) error) pipeline.Steps[entity.DayCounter] {
	return pipeline.Steps[entity.DayCounter]{
		Op:       op,
		Conflict: dayCounterConflict,
		Validate: s.validate,
		Derive:   calc.ApplyDayCounter,
		Persist:  persist,
		Observe:  stateLogger(s.logger, op),
	}
}

func (s *DayCounterService) load(ctx context.Context, id uuid.UUID) (*entity.DayCounter, error) {
	counter, err := s.counterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load day counter", err)
	}
	if counter == nil {
		return nil, apperror.NewNotFoundError("Day counter")
	}
	return counter, nil
}

// CreateDayCounter stores the snapshot for a date with its derived totals
func (s *DayCounterService) CreateDayCounter(ctx context.Context, input *DayCounterInput) (*entity.DayCounter, error) {
	if err := input.check(); err != nil {
		return nil, err
	}
	counter := &entity.DayCounter{}
	input.apply(counter)

	if _, err := pipeline.Run(ctx, counter, s.steps("create day counter", s.counterRepo.Create)); err != nil {
		logStorageFailure(s.logger, "DayCounterService", "CreateDayCounter", counter.Date, err)
		return nil, err
	}
	return counter, nil
}

// GetDayCounter retrieves a day counter by ID
func (s *DayCounterService) GetDayCounter(ctx context.Context, id uuid.UUID) (*entity.DayCounter, error) {
	counter, err := s.load(ctx, id)
	logStorageFailure(s.logger, "DayCounterService", "GetDayCounter", id, err)
	return counter, err
}

// GetDayCounterByDate retrieves the day counter for a calendar date
func (s *DayCounterService) GetDayCounterByDate(ctx context.Context, date time.Time) (*entity.DayCounter, error) {
	counter, err := s.counterRepo.GetByDate(ctx, utils.TruncateDate(date))
	if err != nil {
		err = apperror.NewStorageError("load day counter", err)
		logStorageFailure(s.logger, "DayCounterService", "GetDayCounterByDate", date, err)
		return nil, err
	}
	if counter == nil {
		return nil, apperror.NewNotFoundError("Day counter")
	}
	return counter, nil
}

// ListDayCounters lists day counters, newest date first
func (s *DayCounterService) ListDayCounters(ctx context.Context, params *repository.DayCounterFilterParams) (*pagination.PaginatedResult[entity.DayCounter], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	counters, total, err := s.counterRepo.List(ctx, params)
	if err != nil {
		err = apperror.NewStorageError("list day counters", err)
		logStorageFailure(s.logger, "DayCounterService", "ListDayCounters", nil, err)
		return nil, err
	}
	return paginate(counters, total, params.Pagination), nil
}

// ReplaceDayCounter overwrites every raw field and recomputes the totals
func (s *DayCounterService) ReplaceDayCounter(ctx context.Context, id uuid.UUID, input *DayCounterInput) (*entity.DayCounter, error) {
	if err := input.check(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, "ReplaceDayCounter", "replace day counter", func(d *entity.DayCounter) error {
		input.apply(d)
		return nil
	})
}

// PatchDayCounter merges the given fields onto the stored raw fields and
// recomputes all three derived totals from the merged state
func (s *DayCounterService) PatchDayCounter(ctx context.Context, id uuid.UUID, patch *DayCounterPatch) (*entity.DayCounter, error) {
	return s.update(ctx, id, "PatchDayCounter", "update day counter", func(d *entity.DayCounter) error {
		patch.apply(d)
		return nil
	})
}

func (s *DayCounterService) update(ctx context.Context, id uuid.UUID, funcName, op string, overlay func(*entity.DayCounter) error) (*entity.DayCounter, error) {
	var updated *entity.DayCounter
	err := s.locker.WithLock(ctx, lock.Key("day_counter", id.String()), func(ctx context.Context) error {
		load := func(ctx context.Context) (*entity.DayCounter, error) { return s.load(ctx, id) }
		var err error
		updated, _, err = pipeline.Patch(ctx, load, overlay, s.steps(op, s.counterRepo.Update))
		return err
	})
	if err != nil {
		logStorageFailure(s.logger, "DayCounterService", funcName, id, err)
		return nil, err
	}
	return updated, nil
}

// DeleteDayCounter removes a day counter
func (s *DayCounterService) DeleteDayCounter(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		logStorageFailure(s.logger, "DayCounterService", "DeleteDayCounter", id, err)
		return err
	}
	if err := s.counterRepo.Delete(ctx, id); err != nil {
		err = apperror.NewStorageError("delete day counter", err)
		logStorageFailure(s.logger, "DayCounterService", "DeleteDayCounter", id, err)
		return err
	}
	return nil
}
