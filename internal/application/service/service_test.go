package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/internal/testutil/memrepo"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func m(s string) money.Money { return money.MustParse(s) }

func mp(s string) *money.Money {
	v := money.MustParse(s)
	return &v
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	require.True(t, apperror.IsValidation(err), "expected validation error, got %v", err)
	var out []string
	for _, fe := range apperror.GetAppError(err).Errors {
		out = append(out, fe.Field)
	}
	return out
}

func seedMaterial(t *testing.T, stores *memrepo.Stores, name string) *entity.RawMaterial {
	t.Helper()
	material := &entity.RawMaterial{Name: name}
	require.NoError(t, stores.RawMaterials.Create(context.Background(), material))
	return material
}

// countingLocker records which keys were locked.
type countingLocker struct {
	keys []string
}

func (l *countingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	return fn(ctx)
}

var _ lock.Locker = (*countingLocker)(nil)

// newHookLogger returns a logger whose entries can be inspected.
func newHookLogger() (*logrus.Logger, *test.Hook) {
	l, hook := test.NewNullLogger()
	return l, hook
}
