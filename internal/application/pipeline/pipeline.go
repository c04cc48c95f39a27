// Package pipeline runs the create, replace and patch paths shared by every
// entity with derived fields: validate, derive, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/apperror"
)

// State is how far a mutation got.
type State int

const (
	Drafted State = iota
	Validated
	Persisted
	Rejected
)

func (s State) String() string {
	switch s {
	case Drafted:
		return "drafted"
	case Validated:
		return "validated"
	case Persisted:
		return "persisted"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// ErrIncompleteSteps is returned by Run when Derive or Persist is missing.
var ErrIncompleteSteps = errors.New("pipeline: derive and persist are required")

// Steps describes one mutation of a *T.
type Steps[T any] struct {
	// Op names the mutation in storage error messages, e.g. "create purchase".
	Op string
	// Conflict is the message used when Persist hits a unique key.
	Conflict string
	// Validate checks caller input and references. Optional.
	Validate func(ctx context.Context, v *T) error
	// Derive recomputes the derived fields in place. It runs on every path;
	// entities with nothing to derive pass NoDerive.
	Derive func(v *T) error
	// Persist writes the whole entity.
	Persist func(ctx context.Context, v *T) error
	// Observe, if set, is told each state the mutation reaches after Drafted.
	Observe func(State)
}

// NoDerive is the Derive step for entities without derived fields.
func NoDerive[T any](*T) error { return nil }

// Run validates, derives and persists v. Any error leaves the stored copy
// untouched and the returned state is Rejected.
func Run[T any](ctx context.Context, v *T, steps Steps[T]) (State, error) {
	if steps.Derive == nil || steps.Persist == nil {
		return steps.reject(fmt.Errorf("%s: %w", steps.Op, ErrIncompleteSteps))
	}

	if steps.Validate != nil {
		if err := steps.Validate(ctx, v); err != nil {
			return steps.reject(err)
		}
	}
	steps.observe(Validated)

	if err := steps.Derive(v); err != nil {
		return steps.reject(err)
	}
	if err := steps.Persist(ctx, v); err != nil {
		return steps.reject(steps.persistError(err))
	}
	steps.observe(Persisted)
	return Persisted, nil
}

// Patch loads the stored entity, lets overlay copy the caller's fields onto
// it and runs the merged result through the same steps as a create.
func Patch[T any](ctx context.Context, load func(ctx context.Context) (*T, error), overlay func(v *T) error, steps Steps[T]) (*T, State, error) {
	current, err := load(ctx)
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewStorageError(steps.Op, err)
		}
		state, err := steps.reject(err)
		return nil, state, err
	}

	if overlay != nil {
		if err := overlay(current); err != nil {
			state, err := steps.reject(err)
			return nil, state, err
		}
	}

	state, err := Run(ctx, current, steps)
	if err != nil {
		return nil, state, err
	}
	return current, state, nil
}

func (s Steps[T]) observe(state State) {
	if s.Observe != nil {
		s.Observe(state)
	}
}

func (s Steps[T]) reject(err error) (State, error) {
	s.observe(Rejected)
	return Rejected, err
}

func (s Steps[T]) persistError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		msg := s.Conflict
		if msg == "" {
			msg = apperror.ErrConflict.Message
		}
		return apperror.NewConflictError(msg)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStorageError(s.Op, err)
}
