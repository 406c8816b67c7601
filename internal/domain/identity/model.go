package identity

import (
	"encoding/json"
	"strings"

	"github.com/healthrecords/healthrecords/internal/platform/session"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// Role is the strict client-side role enum. Every backend representation is
// normalized into it at the JSON boundary; downstream checks use plain
// equality.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
	RoleUnknown Role = ""
)

// ParseRole maps the role spellings different backend code paths emit
// (ROLE_-prefixed, bare, mixed case, embedded in a longer authority string)
// onto the strict enum.
func ParseRole(raw string) Role {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(upper, "ADMIN"):
		return RoleAdmin
	case strings.Contains(upper, "DOCTOR"):
		return RoleDoctor
	case strings.Contains(upper, "PATIENT"):
		return RolePatient
	}
	return RoleUnknown
}

// Wire returns the representation the backend expects in payloads.
func (r Role) Wire() string {
	if r == RoleUnknown {
		return ""
	}
	return "ROLE_" + string(r)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// User is a registered account. Role gates which records and actions are
// visible; it is immutable from the client's perspective.
type User struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Role      Role          `json:"role"`
	CreatedAt wire.DateTime `json:"createdAt,omitempty"`
	UpdatedAt wire.DateTime `json:"updatedAt,omitempty"`
}

// FullName renders the display name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Identity converts the user into the session's identity value.
func (u User) Identity() session.Identity {
	return session.Identity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register payload.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// AuthResponse is what login and register return.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
