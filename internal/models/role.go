package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds a user can register as.
type Role string

const (
	RolePropertyManager Role = "PropertyManager"
	RolePropertyOwner   Role = "PropertyOwner"
	RolePropertyTenant  Role = "PropertyTenant"
	RoleServiceProvider Role = "ServiceProvider"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{
	RolePropertyManager,
	RolePropertyOwner,
	RolePropertyTenant,
	RoleServiceProvider,
}

// ParseRole accepts a role name in any case, ignoring spaces, dashes and
// underscores, so "property_manager" and "PropertyManager" are the same role.
func ParseRole(s string) (Role, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	for _, r := range Roles {
		if strings.ToLower(string(r)) == key {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// AttachesToProperty reports whether the role record is bound to a property.
func (r Role) AttachesToProperty() bool {
	return r == RolePropertyManager || r == RolePropertyOwner || r == RolePropertyTenant
}
