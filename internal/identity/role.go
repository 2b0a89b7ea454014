// Package identity defines the console user record and the closed set of roles.
//
// Backends are not consistent about how they report a role: some endpoints send
// "role", some send "type", and restaurant logins sometimes only embed a
// "restaurant" object. NormalizeRole maps every known shape to one Role value and
// rejects the rest instead of guessing.
package identity

import (
	"strings"

	"github.com/spf13/cast"
)

// Role is an actor category of the console.
type Role string

const (
	// RoleSuperAdmin manages the whole platform.
	RoleSuperAdmin Role = "super_admin"
	// RoleRestaurant is a restaurant owner or manager.
	RoleRestaurant Role = "restaurant"
	// RoleDelivery is a delivery partner.
	RoleDelivery Role = "delivery"
	// RoleCustomer is an end customer.
	RoleCustomer Role = "customer"
)

// Roles lists every valid role.
var Roles = []Role{RoleSuperAdmin, RoleRestaurant, RoleDelivery, RoleCustomer}

var aliases = map[string]Role{
	"super_admin":      RoleSuperAdmin,
	"superadmin":       RoleSuperAdmin,
	"super-admin":      RoleSuperAdmin,
	"admin":            RoleSuperAdmin,
	"restaurant":       RoleRestaurant,
	"restaurant_owner": RoleRestaurant,
	"owner":            RoleRestaurant,
	"delivery":         RoleDelivery,
	"driver":           RoleDelivery,
	"rider":            RoleDelivery,
	"courier":          RoleDelivery,
	"customer":         RoleCustomer,
	"user":             RoleCustomer,
}

// ParseRole maps a role string, including the backend aliases, to a Role.
func ParseRole(s string) (Role, error) {
	r, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnknownRole
	}

	return r, nil
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleRestaurant, RoleDelivery, RoleCustomer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// roleFields are inspected in order; the first non-empty one decides.
var roleFields = []string{"role", "type", "userType"}

// NormalizeRole derives the role from a raw user payload.
// A payload that only carries a "restaurant" object is a restaurant user.
func NormalizeRole(payload map[string]any) (Role, error) {
	if payload == nil {
		return "", ErrMissingRole
	}

	for _, field := range roleFields {
		raw, ok := payload[field]
		if !ok || raw == nil {
			continue
		}

		s := cast.ToString(raw)
		if s == "" {
			continue
		}

		return ParseRole(s)
	}

	if sub, ok := payload["restaurant"].(map[string]any); ok && len(sub) > 0 {
		return RoleRestaurant, nil
	}

	return "", ErrMissingRole
}
