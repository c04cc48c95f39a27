// Package memrepo provides in-memory implementations of the domain
// repositories for service and handler tests.
package memrepo

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/pagination"
)

// ErrWriteFailed is returned by every write while a store is failing.
var ErrWriteFailed = errors.New("memrepo: write failed")

// table is a map of records keyed by id. Records are stored and returned by
// value so callers never share memory with the store.
type table[T any] struct {
	mu        sync.RWMutex
	rows      map[uuid.UUID]T
	failWrite bool
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

// FailWrites makes every subsequent write return ErrWriteFailed.
func (t *table[T]) FailWrites(fail bool) {
	t.mu.Lock()
	t.failWrite = fail
	t.mu.Unlock()
}

func (t *table[T]) get(id uuid.UUID) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return &row, true
}

// put stores row unless unique reports a clash with another row.
func (t *table[T]) put(id uuid.UUID, row T, unique func(other T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrite {
		return ErrWriteFailed
	}
	if unique != nil {
		for otherID, other := range t.rows {
			if otherID != id && unique(other) {
				return domainRepo.ErrDuplicate
			}
		}
	}
	t.rows[id] = row
	return nil
}

func (t *table[T]) delete(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrite {
		return ErrWriteFailed
	}
	delete(t.rows, id)
	return nil
}

// find returns the matching rows ordered by less, the total count and the
// requested page. A nil p returns every match.
func (t *table[T]) find(match func(T) bool, less func(a, b T) bool, p *pagination.PaginationParams) ([]T, int64) {
	t.mu.RLock()
	var out []T
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()

	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	total := int64(len(out))
	return pagination.Slice(out, p), total
}

// Len returns how many rows are stored.
func (t *table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
