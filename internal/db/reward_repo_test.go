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

func TestRewardRepository_GetByID(t *testing.T) {
	dbtx := &fakeDBTX{
		row: &fakeRow{values: []any{
			"reward-1", "Coffee Voucher", 250, "company-1", "company-1", "Acme Corp",
		}},
	}
	repo := NewRewardRepository(dbtx)

	reward, err := repo.GetByID(context.Background(), "reward-1")
	require.NoError(t, err)

	assert.Equal(t, "reward-1", reward.ID)
	assert.Equal(t, "Coffee Voucher", reward.Name)
	assert.Equal(t, 250, reward.PointsCost)
	assert.Equal(t, "company-1", reward.CompanyID)
	assert.Equal(t, "Acme Corp", reward.Company.Name)
	assert.Equal(t, []any{"reward-1"}, dbtx.lastArgs)
	assert.Contains(t, dbtx.lastSQL, "JOIN companies c")
}

func TestRewardRepository_GetByID_NotFound(t *testing.T) {
	dbtx := &fakeDBTX{row: &fakeRow{err: pgx.ErrNoRows}}
	repo := NewRewardRepository(dbtx)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeNotFoundReward, appErr.Code)
}

func TestRewardRepository_GetByID_QueryError(t *testing.T) {
	dbtx := &fakeDBTX{row: &fakeRow{err: errors.New("timeout")}}
	repo := NewRewardRepository(dbtx)

	_, err := repo.GetByID(context.Background(), "reward-1")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}
