package redis

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	pkgerrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

type countingSchemeRepo struct {
	schemes []scheme.GovernmentScheme
	calls   atomic.Int32
}

func (r *countingSchemeRepo) ListAll(context.Context) ([]scheme.GovernmentScheme, error) {
	r.calls.Add(1)
	return append([]scheme.GovernmentScheme(nil), r.schemes...), nil
}

func (r *countingSchemeRepo) ListActive(context.Context) ([]scheme.GovernmentScheme, error) {
	r.calls.Add(1)
	return scheme.FilterActive(r.schemes), nil
}

func (r *countingSchemeRepo) GetByCode(_ context.Context, code string) (*scheme.GovernmentScheme, error) {
	r.calls.Add(1)
	for i := range r.schemes {
		if strings.EqualFold(r.schemes[i].Code, code) {
			s := r.schemes[i]
			return &s, nil
		}
	}
	return nil, pkgerrors.Newf(pkgerrors.ErrCodeSchemeNotFound, "scheme %q not found", code)
}

func (r *countingSchemeRepo) Upsert(_ context.Context, s *scheme.GovernmentScheme) error {
	for i := range r.schemes {
		if r.schemes[i].Code == s.Code {
			r.schemes[i] = *s
			return nil
		}
	}
	r.schemes = append(r.schemes, *s)
	return nil
}

func TestCachedSchemeRepository(t *testing.T) {
	t.Parallel()
	_, client := newMiniClient(t)
	inner := &countingSchemeRepo{schemes: scheme.BuiltinCatalog()}
	repo := NewCachedSchemeRepository(inner, NewRedisCache(client, nil), time.Minute, nil)
	ctx := context.Background()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	again, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, again)
	assert.Equal(t, int32(1), inner.calls.Load())

	s, err := repo.GetByCode(ctx, "pmgsy")
	require.NoError(t, err)
	assert.Equal(t, "PMGSY", s.Code)
	_, err = repo.GetByCode(ctx, " PMGSY ")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())

	_, err = repo.GetByCode(ctx, "NOPE")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSchemeNotFound))
	_, err = repo.GetByCode(ctx, "NOPE")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSchemeNotFound))
	assert.Equal(t, int32(4), inner.calls.Load(), "misses are not cached")

	updated := *s
	updated.Status = scheme.StatusClosed
	require.NoError(t, repo.Upsert(ctx, &updated))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, "PMGSY", a.Code)
	}
	got, err := repo.GetByCode(ctx, "PMGSY")
	require.NoError(t, err)
	assert.Equal(t, scheme.StatusClosed, got.Status)
}

//Personal.AI order the ending
