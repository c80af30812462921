package db

import (
	"context"

	"kudosnotify/internal/types"
)

// MemberRepository provides data access for the company_members join
// table. It backs the admin fan-out recipient query.
type MemberRepository struct {
	db DBTX
}

// NewMemberRepository creates a new MemberRepository backed by the given
// database connection (pool or transaction).
func NewMemberRepository(db DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

// memberColumns defines the column set for member queries: the membership
// row plus the joined profile, in scan order.
const memberColumns = `m.company_id, m.user_id, m.role,
	p.user_id, p.email, p.first_name, p.last_name`

// ListCompanyAdmins retrieves every company_admin member of the company
// with their profiles joined in. An empty result is valid (the "no
// admins" case) and returns an empty slice, not an error.
func (r *MemberRepository) ListCompanyAdmins(ctx context.Context, companyID string) ([]types.CompanyMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+memberColumns+`
		 FROM company_members m
		 JOIN profiles p ON p.user_id = m.user_id
		 WHERE m.company_id = $1 AND m.role = $2`,
		companyID,
		types.RoleCompanyAdmin,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query company admins", err)
	}
	defer rows.Close()

	var members []types.CompanyMember
	for rows.Next() {
		var m types.CompanyMember
		var (
			firstName *string
			lastName  *string
			email     *string
		)
		err := rows.Scan(
			&m.CompanyID,
			&m.UserID,
			&m.Role,
			&m.Profile.UserID,
			&email,
			&firstName,
			&lastName,
		)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan company admin row", err)
		}
		m.Profile.Email = derefString(email)
		m.Profile.FirstName = derefString(firstName)
		m.Profile.LastName = derefString(lastName)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate company admin rows", err)
	}

	return members, nil
}
