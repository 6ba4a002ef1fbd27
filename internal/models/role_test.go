package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"PropertyManager":   RolePropertyManager,
		"propertymanager":   RolePropertyManager,
		"property_owner":    RolePropertyOwner,
		" Property Tenant ": RolePropertyTenant,
		"SERVICE-PROVIDER":  RoleServiceProvider,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "admin", "manager", "propertymanagerx"} {
		_, err := ParseRole(in)
		assert.Error(t, err, in)
	}
}

func TestRoleAttachesToProperty(t *testing.T) {
	assert.True(t, RolePropertyManager.AttachesToProperty())
	assert.True(t, RolePropertyOwner.AttachesToProperty())
	assert.True(t, RolePropertyTenant.AttachesToProperty())
	assert.False(t, RoleServiceProvider.AttachesToProperty())
	assert.False(t, Role("Admin").Valid())
	assert.True(t, RoleServiceProvider.Valid())
}
