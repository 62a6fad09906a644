package auth

import "time"

// TimeLayout is the fixed-width timestamp format used on every record.
// Lexicographic order of formatted values equals chronological order, which
// the list orderings rely on.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp formats t in the canonical record format (UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Role is the fixed set of access levels.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleLeadInspector Role = "lead_inspector"
	RoleInspector     Role = "inspector"
	RoleViewer        Role = "viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleLeadInspector, RoleInspector, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is a stored account. Accounts are soft-deleted by clearing Active;
// they are never physically removed.
type User struct {
	ID           string
	Username     string
	FullName     string
	Role         Role
	PasswordHash string
	Active       bool
	CreatedAt    string
	UpdatedAt    string
}

// View strips the credential for external consumption.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Actor identifies the authenticated user performing an action.
func (u User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

// UserView is the public projection of a user.
type UserView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Actor carries the identity stamped onto mutations and audit entries.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Session binds an opaque token to a user. A token is valid iff it is present
// in the session mapping and the referenced user is active; there is no expiry.
type Session struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// CreateUserRequest carries the fields of a new account.
type CreateUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// UserUpdate patches mutable account fields. Nil means keep. UpdatedAt is
// stamped by the service, never by callers.
type UserUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	UpdatedAt string  `json:"-"`
}
