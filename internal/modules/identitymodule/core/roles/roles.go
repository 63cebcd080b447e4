// Package roles holds the rules for changing a user's role
package roles

import (
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/types"
)

// Direction of a role change
type Direction int

const (
	Promote Direction = iota
	Demote
)

func (d Direction) op() string {
	if d == Promote {
		return "promote"
	}
	return "demote"
}

// CheckChange validates that actor may move a user from current to next.
// Only master admins change roles. Promotions must raise the role and
// demotions must lower it. Guest is never a stored role.
func CheckChange(dir Direction, actor, current, next types.Role) error {
	op := dir.op()

	if actor != types.RoleMasterAdmin {
		return apperrors.Forbidden(op, "only a master admin can change roles")
	}
	if !next.Valid() || next == types.RoleGuest {
		return apperrors.Validationf(op, "role", "cannot assign role %q", next)
	}

	switch dir {
	case Promote:
		if current.AtLeast(next) {
			return apperrors.Validationf(op, "role", "%s is not above %s", next, current)
		}
	case Demote:
		if next.AtLeast(current) {
			return apperrors.Validationf(op, "role", "%s is not below %s", next, current)
		}
	}
	return nil
}

// DefaultNext returns the role one step up or down from current, used when
// a request names no target role
func DefaultNext(dir Direction, current types.Role) types.Role {
	switch {
	case dir == Promote && current == types.RoleUser:
		return types.RoleAdmin
	case dir == Promote && current == types.RoleAdmin:
		return types.RoleMasterAdmin
	case dir == Demote && current == types.RoleMasterAdmin:
		return types.RoleAdmin
	case dir == Demote && current == types.RoleAdmin:
		return types.RoleUser
	}
	return current
}

// ProvisionRole maps a token's role hint to the role a new user is stored with
func ProvisionRole(hint types.Role) types.Role {
	if !hint.Valid() || hint == types.RoleGuest {
		return types.RoleUser
	}
	return hint
}
