package auth

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// ParseRole accepts only the two roles that own a credential table.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDriver:
		return Role(s), true
	}
	return "", false
}

// Identity is the authenticated caller, rebuilt from the session cookie on
// every request.
type Identity struct {
	ID         int64  `json:"id"`
	GivenName  string `json:"first_name"`
	FamilyName string `json:"last_name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}

func (i Identity) IsAdmin() bool  { return i.Role == RoleAdmin }
func (i Identity) IsDriver() bool { return i.Role == RoleDriver }
