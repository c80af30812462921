// Package types defines the shared domain model for the Kudosky
// notification service: the rows read from the application database, the
// transient email envelope, and the error taxonomy used across layers.
package types

import "time"

// Profile is a user's display and contact information. Profiles are owned
// by the main application; this service only reads them to resolve email
// recipients. A profile with an empty Email is not a valid send target.
type Profile struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// FullName returns "First Last", trimming the trailing space when the last
// name is absent.
func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Company is the organization that owns rewards and has admin members.
type Company struct {
	ID   string
	Name string
}

// Reward is a claimable reward, read joined with its owning company.
type Reward struct {
	ID         string
	Name       string
	PointsCost int
	CompanyID  string
	Company    Company
}

// CompanyMember links a company to a user profile with a role. The admin
// fan-out resolves members with RoleCompanyAdmin.
type CompanyMember struct {
	CompanyID string
	UserID    string
	Role      string
	Profile   Profile
}

// RoleCompanyAdmin is the company_members role that receives reward-claim
// fan-out notifications.
const RoleCompanyAdmin = "company_admin"

// Kudos is a message sent from one user to another, read joined with both
// sender and receiver profiles.
type Kudos struct {
	ID         string
	Message    string
	SenderID   string
	ReceiverID string
	Sender     Profile
	Receiver   Profile
	CreatedAt  time.Time
}
