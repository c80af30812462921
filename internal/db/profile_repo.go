package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"kudosnotify/internal/types"
)

// ProfileRepository provides data access for the profiles table.
type ProfileRepository struct {
	db DBTX
}

// NewProfileRepository creates a new ProfileRepository backed by the given
// database connection (pool or transaction).
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// profileColumns defines the column set for profile queries, in scan order.
const profileColumns = `p.user_id, p.email, p.first_name, p.last_name`

// GetByUserID retrieves a profile by its user reference. Returns
// not_found_profile if no row matches.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*types.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 WHERE p.user_id = $1`,
		userID,
	)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundProfile, "user profile not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve profile", err)
	}
	return p, nil
}

// scanProfile scans a single profile row. The columns must match the
// order defined in profileColumns. email, first_name, and last_name may
// be NULL; NULL email scans to "", which callers treat as an invalid
// send target.
func scanProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	var (
		email     *string
		firstName *string
		lastName  *string
	)
	err := row.Scan(
		&p.UserID,
		&email,
		&firstName,
		&lastName,
	)
	if err != nil {
		return nil, err
	}
	p.Email = derefString(email)
	p.FirstName = derefString(firstName)
	p.LastName = derefString(lastName)
	return &p, nil
}
