package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosnotify/internal/types"
)

func TestProfileRepository_GetByUserID(t *testing.T) {
	dbtx := &fakeDBTX{
		row: &fakeRow{values: []any{"user-1", "carol@example.com", "Carol", "Diaz"}},
	}
	repo := NewProfileRepository(dbtx)

	profile, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, "carol@example.com", profile.Email)
	assert.Equal(t, "Carol Diaz", profile.FullName())
	assert.Equal(t, []any{"user-1"}, dbtx.lastArgs)
}

func TestProfileRepository_GetByUserID_NullEmail(t *testing.T) {
	dbtx := &fakeDBTX{
		row: &fakeRow{values: []any{"user-1", nil, "Carol", nil}},
	}
	repo := NewProfileRepository(dbtx)

	profile, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)

	// NULL email scans to "", which callers treat as an invalid target.
	assert.Empty(t, profile.Email)
	assert.Equal(t, "Carol", profile.FullName())
}

func TestProfileRepository_GetByUserID_NotFound(t *testing.T) {
	dbtx := &fakeDBTX{row: &fakeRow{err: pgx.ErrNoRows}}
	repo := NewProfileRepository(dbtx)

	_, err := repo.GetByUserID(context.Background(), "missing")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundProfile, appErr.Code)
}

func TestProfileRepository_GetByUserID_QueryError(t *testing.T) {
	dbtx := &fakeDBTX{row: &fakeRow{err: errors.New("broken pipe")}}
	repo := NewProfileRepository(dbtx)

	_, err := repo.GetByUserID(context.Background(), "user-1")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}
