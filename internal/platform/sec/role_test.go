// Copyright (c) 2026 Revuo. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revuo/revuo/internal/platform/sec"
)

/*
TestIdentity_IsAdmin verifies the derived admin flag: superuser and staff
grant admin rights regardless of the role string.
*/
func TestIdentity_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		identity sec.Identity
		want     bool
	}{
		{"plain_user", sec.Identity{Role: sec.RoleUser}, false},
		{"moderator", sec.Identity{Role: sec.RoleModerator}, false},
		{"admin_role", sec.Identity{Role: sec.RoleAdmin}, true},
		{"superuser_user_role", sec.Identity{Role: sec.RoleUser, IsSuperuser: true}, true},
		{"staff_user_role", sec.Identity{Role: sec.RoleUser, IsStaff: true}, true},
		{"superuser_and_admin", sec.Identity{Role: sec.RoleAdmin, IsSuperuser: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.IsAdmin())
		})
	}
}

func TestIdentity_IsModerator(t *testing.T) {
	assert.True(t, (&sec.Identity{Role: sec.RoleModerator}).IsModerator())
	assert.False(t, (&sec.Identity{Role: sec.RoleAdmin}).IsModerator())
	assert.False(t, (&sec.Identity{Role: sec.RoleUser, IsSuperuser: true}).IsModerator())
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleUser.IsValid())
	assert.True(t, sec.RoleModerator.IsValid())
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.False(t, sec.UserRole("owner").IsValid())
	assert.False(t, sec.UserRole("").IsValid())
}
