package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	A, B  int
	Sum   int
	trace []string
}

func steps(store map[string]record) Steps[record] {
	return Steps[record]{
		Op: "save record",
		Validate: func(ctx context.Context, r *record) error {
			r.trace = append(r.trace, "validate")
			if r.A < 0 {
				return apperror.NewFieldError("a", "must not be negative")
			}
			return nil
		},
		Derive: func(r *record) error {
			r.trace = append(r.trace, "derive")
			r.Sum = r.A + r.B
			return nil
		},
		Persist: func(ctx context.Context, r *record) error {
			r.trace = append(r.trace, "persist")
			store["r"] = *r
			return nil
		},
	}
}

func TestRunOrder(t *testing.T) {
	store := map[string]record{}
	r := &record{A: 1, B: 2, Sum: 99}

	state, err := Run(context.Background(), r, steps(store))
	require.NoError(t, err)
	assert.Equal(t, Persisted, state)
	assert.Equal(t, []string{"validate", "derive", "persist"}, r.trace)
	assert.Equal(t, 3, store["r"].Sum)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	store := map[string]record{}
	r := &record{A: -1}

	state, err := Run(context.Background(), r, steps(store))
	assert.Equal(t, Rejected, state)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, store)
	assert.Equal(t, []string{"validate"}, r.trace)
}

func TestRunWrapsPersistFailures(t *testing.T) {
	cause := errors.New("connection reset")
	s := steps(map[string]record{})
	s.Persist = func(ctx context.Context, r *record) error { return cause }

	state, err := Run(context.Background(), &record{}, s)
	assert.Equal(t, Rejected, state)
	assert.True(t, apperror.IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Storage failure while trying to save record", apperror.GetAppError(err).Message)
}

func TestRunMapsDuplicatesToConflict(t *testing.T) {
	s := steps(map[string]record{})
	s.Conflict = "Record for this date already exists"
	s.Persist = func(ctx context.Context, r *record) error {
		return fmt.Errorf("insert: %w", repository.ErrDuplicate)
	}

	_, err := Run(context.Background(), &record{}, s)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, "Record for this date already exists", apperror.GetAppError(err).Message)
}

func TestPatchRecomputesFromMergedState(t *testing.T) {
	store := map[string]record{"r": {A: 1, B: 2, Sum: 3}}
	load := func(ctx context.Context) (*record, error) {
		r := store["r"]
		return &r, nil
	}
	b := 10
	overlay := func(r *record) error {
		r.B = b
		return nil
	}

	got, state, err := Patch(context.Background(), load, overlay, steps(store))
	require.NoError(t, err)
	assert.Equal(t, Persisted, state)
	assert.Equal(t, 11, got.Sum)
	assert.Equal(t, 1, store["r"].A)
	assert.Equal(t, 11, store["r"].Sum)
}

func TestPatchRecomputesWithEmptyOverlay(t *testing.T) {
	store := map[string]record{"r": {A: 4, B: 5, Sum: 0}}
	load := func(ctx context.Context) (*record, error) {
		r := store["r"]
		return &r, nil
	}

	got, _, err := Patch(context.Background(), load, nil, steps(store))
	require.NoError(t, err)
	assert.Equal(t, 9, got.Sum)
}

func TestPatchLoadErrors(t *testing.T) {
	notFound := func(ctx context.Context) (*record, error) { return nil, apperror.NewNotFoundError("Record") }
	_, state, err := Patch(context.Background(), notFound, nil, steps(map[string]record{}))
	assert.Equal(t, Rejected, state)
	assert.True(t, apperror.IsNotFound(err))

	broken := func(ctx context.Context) (*record, error) { return nil, errors.New("timeout") }
	_, _, err = Patch(context.Background(), broken, nil, steps(map[string]record{}))
	assert.True(t, apperror.IsStorage(err))
}

func TestPatchLeavesStoreOnRejectedOverlay(t *testing.T) {
	store := map[string]record{"r": {A: 1, B: 2, Sum: 3}}
	load := func(ctx context.Context) (*record, error) {
		r := store["r"]
		return &r, nil
	}
	overlay := func(r *record) error {
		r.A = -5
		return nil
	}

	_, state, err := Patch(context.Background(), load, overlay, steps(store))
	assert.Equal(t, Rejected, state)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, record{A: 1, B: 2, Sum: 3}, store["r"])
}

func TestRunRequiresDeriveAndPersist(t *testing.T) {
	store := map[string]record{}

	s := steps(store)
	s.Derive = nil
	var seen []State
	s.Observe = func(state State) { seen = append(seen, state) }
	r := &record{A: 1}
	state, err := Run(context.Background(), r, s)
	assert.Equal(t, Rejected, state)
	assert.ErrorIs(t, err, ErrIncompleteSteps)
	assert.Empty(t, r.trace)
	assert.Equal(t, []State{Rejected}, seen)

	s = steps(store)
	s.Persist = nil
	_, err = Run(context.Background(), &record{}, s)
	assert.ErrorIs(t, err, ErrIncompleteSteps)
	assert.Empty(t, store)
}

func TestRunWithNoDerive(t *testing.T) {
	store := map[string]record{}
	s := steps(store)
	s.Derive = NoDerive[record]

	state, err := Run(context.Background(), &record{A: 1, B: 2, Sum: 7}, s)
	require.NoError(t, err)
	assert.Equal(t, Persisted, state)
	assert.Equal(t, 7, store["r"].Sum)
}

func TestObserveReportsStates(t *testing.T) {
	var seen []State
	s := steps(map[string]record{})
	s.Observe = func(state State) { seen = append(seen, state) }

	_, err := Run(context.Background(), &record{A: 1}, s)
	require.NoError(t, err)
	assert.Equal(t, []State{Validated, Persisted}, seen)

	seen = nil
	_, err = Run(context.Background(), &record{A: -1}, s)
	require.Error(t, err)
	assert.Equal(t, []State{Rejected}, seen)

	seen = nil
	s.Derive = func(r *record) error { return apperror.NewFieldError("sum", "is too large") }
	_, err = Run(context.Background(), &record{A: 1}, s)
	require.Error(t, err)
	assert.Equal(t, []State{Validated, Rejected}, seen)

	seen = nil
	missing := func(ctx context.Context) (*record, error) { return nil, apperror.NewNotFoundError("Record") }
	_, _, err = Patch(context.Background(), missing, nil, s)
	require.Error(t, err)
	assert.Equal(t, []State{Rejected}, seen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "drafted", Drafted.String())
	assert.Equal(t, "validated", Validated.String())
	assert.Equal(t, "persisted", Persisted.String())
	assert.Equal(t, "unknown", State(42).String())
}
