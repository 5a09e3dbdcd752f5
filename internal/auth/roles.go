package auth

// Role is the authenticated party's role carried in the access token.
type Role string

const (
	RoleRenter Role = "renter"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	switch r {
	case RoleRenter, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff returns true for counter staff and administrators.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}
