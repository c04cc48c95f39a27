package repository

import (
	"errors"
	"time"

	"github.com/sangkips/daybook-api/pkg/pagination"
)

// ErrDuplicate is returned by a store when a write would violate a unique key.
var ErrDuplicate = errors.New("duplicate record")

// DateRange limits a listing to records dated within [From, To]. Either bound
// may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t lies inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ListParams are the options shared by every listing.
type ListParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
