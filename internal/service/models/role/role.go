package role

import (
	"database/sql/driver"
	"errors"
)

// Role is the closed set of roles a credential can carry.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) String() string {
	return string(r)
}

func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

// IsPrivileged reports whether the role may write the catalog and see every order.
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

func ParseRole(s string) (Role, error) {
	switch s {
	case RoleCustomer.String():
		return RoleCustomer, nil
	case RoleAdmin.String():
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}
