package model

import "github.com/google/uuid"

const (
	RoleAdmin          = "ADMIN"
	RoleLeasingOfficer = "LEASING_OFFICER"
	RoleContact        = "CONTACT"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID      uuid.UUID
	ContactCode string
	Role        string
}

func (p Principal) IsAdmin() bool          { return p.Role == RoleAdmin }
func (p Principal) IsLeasingOfficer() bool { return p.Role == RoleLeasingOfficer }
func (p Principal) IsContact() bool        { return p.Role == RoleContact }

// CanManageOffers reports whether the caller may create offers and export
// applicant rankings.
func (p Principal) CanManageOffers() bool {
	return p.IsAdmin() || p.IsLeasingOfficer()
}
