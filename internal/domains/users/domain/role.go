package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role controls what an account may do. Admin and manager run the shop;
// employees handle fulfilment; customers place orders.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleAdmin, RoleManager, RoleEmployee, RoleCustomer:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// Privileged reports whether the role may manage orders and settings beyond
// its own records.
func (r Role) Privileged() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleEmployee, RoleCustomer:
		return false
	default:
		return false
	}
}

// Staff reports whether the role acts on behalf of the shop.
func (r Role) Staff() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}
