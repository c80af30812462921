package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"kudosnotify/internal/types"
)

// RewardRepository provides data access for the rewards table joined with
// the owning company.
type RewardRepository struct {
	db DBTX
}

// NewRewardRepository creates a new RewardRepository backed by the given
// database connection (pool or transaction).
func NewRewardRepository(db DBTX) *RewardRepository {
	return &RewardRepository{db: db}
}

// rewardColumns defines the column set for reward queries, in scan order.
const rewardColumns = `r.id, r.name, r.points_cost, r.company_id, c.id, c.name`

// GetByID retrieves a reward with its owning company in a single round
// trip. Returns not_found_reward if no row matches.
func (r *RewardRepository) GetByID(ctx context.Context, id string) (*types.Reward, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+rewardColumns+`
		 FROM rewards r
		 JOIN companies c ON c.id = r.company_id
		 WHERE r.id = $1`,
		id,
	)

	var rw types.Reward
	err := row.Scan(
		&rw.ID,
		&rw.Name,
		&rw.PointsCost,
		&rw.CompanyID,
		&rw.Company.ID,
		&rw.Company.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundReward, "reward not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve reward", err)
	}
	return &rw, nil
}
