package dashboard

import (
	"errors"

	"wellbeing-service/internal/model"
)

var (
	// ErrCompanyMismatch means the authenticated user asked for a
	// company other than their own.
	ErrCompanyMismatch = errors.New("authenticated user does not belong to the requested company")

	// ErrNotAdmin means a non-administrator asked for company rollups.
	ErrNotAdmin = errors.New("dashboard access requires the admin role")
)

// CompanyScope is proof that the holder was authorized for one
// specific company. Service methods accept only a CompanyScope, never
// a raw company id, so the cross-tenant check cannot be forgotten at
// a call site. The zero value scopes nothing and matches no company.
type CompanyScope struct {
	companyID uint
}

// CompanyID returns the company the scope was authorized for.
func (s CompanyScope) CompanyID() uint {
	return s.companyID
}

// Authorize checks that the authenticated user is an administrator of
// the requested company and returns a scope for it.
func Authorize(user *model.User, requestedCompanyID uint) (CompanyScope, error) {
	if user.Role != model.RoleAdmin {
		return CompanyScope{}, ErrNotAdmin
	}
	if user.CompanyID != requestedCompanyID {
		return CompanyScope{}, ErrCompanyMismatch
	}
	return CompanyScope{companyID: requestedCompanyID}, nil
}
