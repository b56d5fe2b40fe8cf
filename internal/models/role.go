package models

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
	RoleUser   Role = "User"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleUser:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
