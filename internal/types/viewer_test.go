package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleMasterAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("root").AtLeast(RoleUser))
}

func TestViewerIsAdmin(t *testing.T) {
	assert.False(t, Guest().IsAdmin())
	assert.True(t, Viewer{Role: RoleAdmin}.IsAdmin())
	assert.True(t, Viewer{Role: RoleMasterAdmin}.IsAdmin())
}
