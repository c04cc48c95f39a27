package repository

import (
	"errors"
	"strings"

	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate applies offset and limit from params.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// DateBetween filters column by an inclusive date range.
func DateBetween(column string, dates domainRepo.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if dates.From != nil {
			db = db.Where(column+" >= ?", *dates.From)
		}
		if dates.To != nil {
			db = db.Where(column+" <= ?", *dates.To)
		}
		return db
	}
}

// Search matches term case-insensitively against any of columns. LOWER/LIKE
// is used instead of ILIKE so the same query runs on SQLite.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// translateError maps driver errors onto the domain's sentinel errors.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicate
	}
	return err
}

func ensurePagination(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		return pagination.DefaultPagination()
	}
	return p
}
