// Package types holds small value types shared across modules.
package types

// Role is a principal's authorization level
type Role string

const (
	RoleGuest       Role = "guest"
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "masterAdmin"
)

// rank orders roles so checks can ask for "at least"
var rank = map[Role]int{
	RoleGuest:       0,
	RoleUser:        1,
	RoleAdmin:       2,
	RoleMasterAdmin: 3,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants
func (r Role) AtLeast(min Role) bool {
	return rank[r] >= rank[min]
}

// Viewer is the resolved principal making a request. It is passed to
// domain functions as plain input; nothing in the domain looks it up.
type Viewer struct {
	UserID        string `json:"user_id,omitempty"`
	Role          Role   `json:"role"`
	Authenticated bool   `json:"authenticated"`
	IsPremium     bool   `json:"is_premium"`
}

// Guest returns the anonymous viewer
func Guest() Viewer {
	return Viewer{Role: RoleGuest}
}

// IsAdmin reports whether the viewer holds admin or master admin
func (v Viewer) IsAdmin() bool {
	return v.Role.AtLeast(RoleAdmin)
}
