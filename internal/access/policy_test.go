package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupFunc func(ctx context.Context, id int64) (bool, error)

func (f lookupFunc) IsAdmin(ctx context.Context, id int64) (bool, error) { return f(ctx, id) }

func TestPolicy(t *testing.T) {
	calls := 0
	p := NewPolicy(1, lookupFunc(func(_ context.Context, id int64) (bool, error) {
		calls++
		if id == 3 {
			return false, errors.New("db down")
		}
		return id == 2, nil
	}))

	assert.True(t, p.IsSuperAdmin(1))
	assert.False(t, p.IsSuperAdmin(2))
	assert.Equal(t, int64(1), p.SuperAdmin())

	ok, err := p.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, calls, "super admin must not hit the store")

	ok, err = p.IsAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsAdmin(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.IsAdmin(context.Background(), 3)
	assert.Error(t, err)
}

func TestZeroSuperAdminNeverMatches(t *testing.T) {
	p := NewPolicy(0, nil)
	assert.False(t, p.IsSuperAdmin(0))
	ok, err := p.IsAdmin(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
