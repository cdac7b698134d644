package domain

import "github.com/google/uuid"

// PrincipalKind tags the identity source a principal was resolved from.
type PrincipalKind string

const (
	// PrincipalAdminAccount is an account from the dedicated admins store.
	PrincipalAdminAccount PrincipalKind = "admin"

	// PrincipalAdminUser is a legacy role-flagged user. Tokens carrying this
	// kind are still honored for backward compatibility.
	PrincipalAdminUser PrincipalKind = "user"
)

// Principal is the authenticated identity attached to a request after
// successful token verification. The password hash is never carried here.
type Principal struct {
	Kind      PrincipalKind `json:"kind"`
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	IsActive  bool          `json:"isActive"`
	CreatedAt string        `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the principal satisfies the admin role. Dedicated
// admin accounts always do; legacy users only when role-flagged as admin.
func (p *Principal) IsAdmin() bool {
	switch p.Kind {
	case PrincipalAdminAccount:
		return true
	case PrincipalAdminUser:
		return p.Role == "admin"
	}
	return false
}
