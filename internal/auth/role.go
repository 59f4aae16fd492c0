package auth

import "fmt"

// Role is the access level of an account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// ParseRole accepts only the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role works the front desk (staff or admin).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}
